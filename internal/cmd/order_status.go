package cmd

import (
	"context"
	"fmt"
	"time"

	"dishtalgia-backend/internal/order"

	"github.com/spf13/cobra"
)

var cancelReason string

var orderStatusCmd = &cobra.Command{
	Use:   "order-status <orderNumber> <status>",
	Short: "Move an order to a new fulfilment status",
	Long: `Move an order through its status machine:
pending -> processing -> shipped -> delivered, or cancelled from any
state that is not delivered or cancelled yet.`,
	Args: cobra.ExactArgs(2),
	RunE: runOrderStatus,
}

func init() {
	rootCmd.AddCommand(orderStatusCmd)

	orderStatusCmd.Flags().StringVar(&cancelReason, "reason", "", "Cancellation reason, stored when cancelling")
}

func runOrderStatus(cmd *cobra.Command, args []string) error {
	to, err := order.ParseStatus(args[1])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	_, log, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	svc := order.NewService(order.NewMongoRepository(db), nil, nil, order.Options{}, log)
	o, err := svc.SetStatus(ctx, args[0], to, cancelReason)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "order %s is now %s\n", o.OrderNumber, o.Status)
	return nil
}
