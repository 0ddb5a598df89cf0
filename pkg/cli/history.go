package cli

import (
	"context"

	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	var (
		cfg       config
		patientID string
		daysBack  int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "patient-id",
			Usage:       "Patient identifier",
			Required:    true,
			Destination: &patientID,
		},
		&cli.IntFlag{
			Name:        "days-back",
			Usage:       "How many days of history to retrieve",
			Value:       90,
			Destination: &daysBack,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "Show the organized memory of a patient",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.newContext(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			result := memory.New(repo).Query(ctx, patientID, int(daysBack))
			return printJSON(c.Root().Writer, result)
		},
	}
}
