package cli

import (
	"context"

	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/usecase/appointment"
	"github.com/urfave/cli/v3"
)

func appointmentCommand() *cli.Command {
	var (
		cfg    config
		input  string
		detail model.EventDetail
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to JSON file containing an event with appointment detail (overrides the detail flags)",
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "patient-id",
			Usage:       "Patient identifier",
			Destination: &detail.PatientID,
		},
		&cli.StringFlag{
			Name:        "specialist",
			Usage:       "Recommended specialist",
			Destination: (*string)(&detail.Specialist),
		},
		&cli.StringFlag{
			Name:        "urgency",
			Usage:       "Urgency level (urgent, priority, routine)",
			Destination: (*string)(&detail.Urgency),
		},
		&cli.StringFlag{
			Name:        "reasoning",
			Usage:       "Justification for the appointment",
			Destination: &detail.Reasoning,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "appointment",
		Usage: "Create an appointment from a medical event detail",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.newContext(ctx)

			target := &detail
			if input != "" {
				event, err := readEvent(input)
				if err != nil {
					return err
				}
				if event.Detail != nil {
					target = event.Detail
				}
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			uc := appointment.New(memory.New(repo))
			result := uc.Schedule(ctx, target)

			return printJSON(c.Root().Writer, result)
		},
	}
}
