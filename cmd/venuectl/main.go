package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"venue_manager/config"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/jobs"
	"venue_manager/logger"
	"venue_manager/messaging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

// rootCmd is the operator CLI for maintenance tasks the scheduler normally runs.
var rootCmd = &cobra.Command{
	Use:           "venuectl",
	Short:         "Venue manager maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		_, err := logger.Init(level, false)
		return err
	},
}

// connect opens the database; the holiday listing is the only command that does without it.
func connect() error {
	if _, err := config.Load(); err != nil {
		return err
	}
	return database.ConnectDB()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and seed the default admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		fmt.Println("database up to date")
		return nil
	},
}

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Recurring invoice templates",
}

var recurringRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Issue every recurring invoice that is due",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		created, err := jobs.RunRecurringInvoices(database.DB)
		if err != nil {
			return err
		}
		fmt.Printf("%d invoice(s) created\n", created)
		return nil
	},
}

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Quote maintenance",
}

var quotesExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Expire sent quotes past their valid-until date",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		n, err := jobs.RunQuoteExpiry(database.DB)
		if err != nil {
			return err
		}
		fmt.Printf("%d quote(s) expired\n", n)
		return nil
	},
}

var invoicesOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Mark unpaid invoices past their due date as overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		n, err := jobs.RunOverdueInvoices(database.DB)
		if err != nil {
			return err
		}
		fmt.Printf("%d invoice(s) marked overdue\n", n)
		return nil
	},
}

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Invoice maintenance",
}

var holidayYear int

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "UK bank holidays",
}

var holidaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the bank holidays of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, h := range helper.UKHolidays(holidayYear) {
			fmt.Printf("%s  %-10s  %s\n", h.Date.Format(time.DateOnly), h.Type, h.Name)
		}
		return nil
	},
}

var holidaysSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the bank holidays of a year in the holiday table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		created := database.SeedHolidays(database.DB, helper.UKHolidays(holidayYear))
		fmt.Printf("%d holiday(s) added for %d\n", created, holidayYear)
		return nil
	},
}

var drainLimit int

var messagesDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Deliver queued messages now",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		settings := config.Get()
		var sms messaging.SMSSender
		if settings.SMSAccountSID != "" {
			sms = messaging.NewSMSClient(messaging.SMSConfig{
				BaseURL:       settings.SMSBaseURL,
				AccountSID:    settings.SMSAccountSID,
				AuthToken:     settings.SMSAuthToken,
				From:          settings.SMSFrom,
				RatePerSecond: settings.SMSRatePerSecond,
				Timeout:       settings.SMSTimeout,
			})
		}
		d := messaging.NewDispatcher(database.DB, sms, messaging.SMTPSender{})
		delivered, err := d.DrainQueued(cmd.Context(), drainLimit)
		if err != nil {
			return err
		}
		fmt.Printf("%d message(s) processed\n", delivered)
		return nil
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Outbound message queue",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	holidaysCmd.PersistentFlags().IntVar(&holidayYear, "year", time.Now().Year(), "calendar year")
	messagesDrainCmd.Flags().IntVar(&drainLimit, "limit", 100, "maximum messages to process")

	recurringCmd.AddCommand(recurringRunCmd)
	quotesCmd.AddCommand(quotesExpireCmd)
	invoicesCmd.AddCommand(invoicesOverdueCmd)
	holidaysCmd.AddCommand(holidaysListCmd, holidaysSeedCmd)
	messagesCmd.AddCommand(messagesDrainCmd)
	rootCmd.AddCommand(migrateCmd, recurringCmd, quotesCmd, invoicesCmd, holidaysCmd, messagesCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		zap.S().Error(err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
