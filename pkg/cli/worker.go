package cli

import (
	"context"

	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/usecase/appointment"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func workerCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, busFlags(&cfg)...)

	return &cli.Command{
		Name:  "worker",
		Usage: "Consume published medical events and schedule appointments",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.newContext(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			bus, err := cfg.newBus(ctx)
			if err != nil {
				return err
			}
			defer bus.Close()

			logging.From(ctx).Info("worker started", "stream", cfg.stream)

			uc := appointment.New(memory.New(repo))
			return uc.Consume(ctx, bus)
		},
	}
}
