package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Venuja2003/Estate-Agent/internal"
	"github.com/Venuja2003/Estate-Agent/internal/adapters/rabbitmq"
	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/pkg/rabbitmq/amqpx"
)

func newEventsCmd(opts *options) *cobra.Command {
	var (
		actions   []string
		sessionID string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow favourites changes published by running servers",
		Long: "Binds a temporary queue to the favourites exchange and prints each event " +
			"as one JSON line until interrupted. Requires RABBITMQ_ENABLED and RABBITMQ_URL.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.RabbitMQ.Enabled {
				return fmt.Errorf("RABBITMQ_ENABLED must be true to follow events")
			}
			keys := make([]domain.FavouritesAction, 0, len(actions))
			for _, a := range actions {
				action, err := parseAction(a)
				if err != nil {
					return err
				}
				keys = append(keys, action)
			}

			logging, err := internal.NewLogging(cfg)
			if err != nil {
				return err
			}
			defer logging.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = contextkeys.ContextWithLogger(ctx, logging.Base)

			bridge := rabbitmq.NewLoggerBridge(logging.Base)
			manager, err := amqpx.NewConnectionManager(cfg.RabbitMQ.URL, 0, bridge)
			if err != nil {
				return err
			}
			defer manager.Close()

			consumer, err := amqpx.NewConsumer(amqpx.ConsumerConfig{
				ExchangeName:    cfg.RabbitMQ.Exchange,
				ExchangeType:    "topic",
				DurableExchange: true,
				DeclareExchange: true,
				RoutingKeys:     rabbitmq.BindingKeys(keys...),
				PrefetchCount:   32,
				Logger:          bridge,
			}, manager)
			if err != nil {
				return err
			}
			defer consumer.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			return consumer.Consume(ctx, rabbitmq.HandleFavouritesEvents(
				func(_ context.Context, e domain.FavouritesChangedEvent) error {
					if sessionID != "" && e.SessionID != sessionID {
						return nil
					}
					return enc.Encode(e)
				}))
		},
	}
	cmd.Flags().StringSliceVar(&actions, "action", nil, "Only these actions: added, removed, cleared, dropped")
	cmd.Flags().StringVar(&sessionID, "session", "", "Only events from this session id")
	return cmd
}

func parseAction(s string) (domain.FavouritesAction, error) {
	switch a := domain.FavouritesAction(s); a {
	case domain.FavouritesAdded, domain.FavouritesRemoved, domain.FavouritesCleared, domain.FavouritesDropped:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}
