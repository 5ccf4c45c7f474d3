package app

import (
	"context"
	"fmt"

	"github.com/bgunnarsson/insuresql/internal/insurance"
)

func (s *Session) Products(ctx context.Context) error {
	names, err := s.repo.ListProductShortNames(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(s.Out, n)
	}
	return nil
}

func (s *Session) Customer(ctx context.Context, id int64) error {
	c, ok, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(s.Out, "customer %d not found\n", id)
		return nil
	}
	fmt.Fprintln(s.Out, c.String())
	return nil
}

func (s *Session) CreateContract(ctx context.Context, c insurance.Contract) error {
	if err := s.repo.CreateContract(ctx, c); err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "contract %d created\n", c.ID)
	return nil
}

func (s *Session) Rate(ctx context.Context, contractID int64) error {
	rate, ok, err := s.repo.CalcMonthlyRate(ctx, contractID)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(s.Out, "contract %d not found\n", contractID)
		return nil
	}
	fmt.Fprintln(s.Out, rate.StringFixed(2))
	return nil
}
