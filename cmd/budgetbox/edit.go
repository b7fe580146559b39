package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/baharkarakas/budgetbox/internal/models"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Edit every budget field in a form",
		RunE:  runEdit,
	})
}

func runEdit(_ *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}

	current := a.store.Budget()
	values := make([]string, len(models.Fields))
	inputs := make([]huh.Field, len(models.Fields))
	for i, f := range models.Fields {
		if v := current.Get(f); v != 0 {
			values[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		inputs[i] = huh.NewInput().
			Title(f.Label()).
			Prompt("$ ").
			Placeholder("0.00").
			Value(&values[i]).
			Validate(validateAmount)
	}

	form := huh.NewForm(huh.NewGroup(inputs...).Title("Edit Budget"))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("edit form: %w", err)
	}

	for i, f := range models.Fields {
		next, _ := strconv.ParseFloat(strings.TrimSpace(values[i]), 64)
		if next == current.Get(f) {
			continue
		}
		if err := a.store.UpdateFieldString(string(f), values[i]); err != nil {
			return err
		}
	}
	printView(a)
	return nil
}

// validateAmount accepts blank input as 0.
func validateAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}
