package cmd

import (
	"context"
	"fmt"
	"time"

	"dishtalgia-backend/internal/account"
	"dishtalgia-backend/internal/cart"
	"dishtalgia-backend/internal/catalog"
	"dishtalgia-backend/internal/contact"
	"dishtalgia-backend/internal/database"
	"dishtalgia-backend/internal/notify"
	"dishtalgia-backend/internal/order"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create indexes and load the default product catalog",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	_, _, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	products := catalog.NewMongoRepository(db)
	if err := database.EnsureIndexes(ctx,
		products,
		cart.NewMongoRepository(db),
		order.NewMongoRepository(db),
		account.NewMongoRepository(db),
		contact.NewMongoRepository(db),
		notify.NewMongoStore(db),
	); err != nil {
		return err
	}

	n, err := catalog.Seed(ctx, products)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", n)
	return nil
}
