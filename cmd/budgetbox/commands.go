package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/baharkarakas/budgetbox/internal/client"
	"github.com/baharkarakas/budgetbox/internal/config"
	"github.com/baharkarakas/budgetbox/internal/dashboard"
	"github.com/baharkarakas/budgetbox/internal/models"
)

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the budget dashboard",
			RunE:  runShow,
		},
		&cobra.Command{
			Use:   "set <field> <value>",
			Short: "Set one budget field (" + fieldNames() + ")",
			Args:  cobra.ExactArgs(2),
			RunE:  runSet,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the sync status",
			RunE:  runStatus,
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Push the local budget to the server",
			RunE:  runSync,
		},
		&cobra.Command{
			Use:   "pull",
			Short: "Replace the local budget with the latest server copy",
			RunE:  runPull,
		},
		&cobra.Command{
			Use:   "history",
			Short: "List the last ten synced snapshots",
			RunE:  runHistory,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the current settings to the config file",
			RunE:  runInit,
		},
	)
}

func fieldNames() string {
	names := make([]string, len(models.Fields))
	for i, f := range models.Fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func printView(a *app) {
	st, _ := a.store.Snapshot()
	fmt.Println()
	fmt.Print(dashboard.Render(dashboard.View{Budget: st.Data, Status: string(st.Status)}))
	fmt.Println()
}

func runShow(_ *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	printView(a)
	return nil
}

func runSet(_ *cobra.Command, args []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	if err := a.store.UpdateFieldString(args[0], args[1]); err != nil {
		return err
	}
	f, _ := models.ParseField(args[0])
	fmt.Printf("  %s = %s  %s\n", f.Label(),
		strconv.FormatFloat(a.store.Budget().Get(f), 'f', -1, 64),
		dashboard.StatusBadge(string(a.store.Status())))
	return nil
}

func runStatus(_ *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	fmt.Println("  " + dashboard.StatusBadge(string(a.store.Status())))
	return nil
}

func runSync(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	if err := a.coord.Sync(cmd.Context()); err != nil {
		if errors.Is(err, client.ErrUserNotFound) {
			return fmt.Errorf("the server has no account for %s", a.cfg.Email)
		}
		return err
	}
	fmt.Println("  " + dashboard.StatusBadge(string(a.store.Status())))
	return nil
}

func runPull(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	applied, err := a.coord.Load(cmd.Context())
	if err != nil {
		return err
	}
	if !applied {
		fmt.Println("  Server has no budget yet; keeping local data.")
		return nil
	}
	printView(a)
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	list, err := a.api.History(cmd.Context())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("  No snapshots yet.")
		return nil
	}

	head := lipgloss.NewStyle().Bold(true)
	fmt.Println(head.Render(fmt.Sprintf("  %-20s %10s %10s %10s %9s", "Updated", "Income", "Expenses", "Savings", "Burn")))
	for _, s := range list {
		fmt.Printf("  %-20s %10.2f %10.2f %10.2f %8s%%\n",
			s.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
			s.Income, dashboard.TotalExpenses(s.Budget), dashboard.Savings(s.Budget), dashboard.BurnRate(s.Budget))
	}
	return nil
}

func runInit(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := flagConfig
	if path == "" {
		path = config.ClientPath()
	}
	if err := config.SaveClient(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Saved to %s\n", path)
	return nil
}
