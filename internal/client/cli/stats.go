package cli

import (
	"context"
	"fmt"
)

// Stats fetches and prints the spending dashboard.
func (a *App) Stats(ctx context.Context) error {
	s, err := a.client.GetStats(ctx)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	fmt.Printf("Total spend:    %.2f\n", s.TotalSpend)
	fmt.Printf("Total income:   %.2f\n", s.TotalIncome)
	if s.TopCategory != "" {
		fmt.Printf("Top category:   %s\n", s.TopCategory)
	}
	return nil
}

// Me fetches and prints the current account.
func (a *App) Me(ctx context.Context) error {
	p, err := a.client.Me(ctx)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		return err
	}

	fmt.Printf("Username: %s\nEmail:    %s\n", p.Username, p.Email)
	return nil
}
