package commands

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/clear-ness/view-counter/model"
	"github.com/clear-ness/view-counter/tracker"
)

var trackCmd = &cobra.Command{
	Use:   "track [post_id]",
	Short: "report a view of a post the way a page does",
	Long: `Schedules a view report, waits for it and prints the ledger of reported posts.
Either --site-url, to fetch the tracker settings from a running server, or --url and --nonce are required.`,
	Example: "  track --site-url http://localhost:8080 42",
	Args:    cobra.ExactArgs(1),
	RunE:    trackCmdF,
}

func init() {
	trackCmd.Flags().String("site-url", "", "site url of the server to fetch tracker settings from")
	trackCmd.Flags().String("url", "", "view report endpoint")
	trackCmd.Flags().String("nonce", "", "view report nonce")
	trackCmd.Flags().Int("delay", model.VIEW_COUNTER_SETTINGS_DEFAULT_DELAY, "seconds to wait before reporting")
	trackCmd.Flags().String("ledger", "viewed_posts.db", "sqlite file holding the viewed posts ledger")
	trackCmd.Flags().Duration("timeout", 30*time.Second, "report request timeout")

	RootCmd.AddCommand(trackCmd)
}

func trackCmdF(command *cobra.Command, args []string) error {
	postId, err := parsePostIdArg(args[0])
	if err != nil {
		return err
	}

	siteURL, _ := command.Flags().GetString("site-url")
	url, _ := command.Flags().GetString("url")
	nonce, _ := command.Flags().GetString("nonce")
	delay, _ := command.Flags().GetInt("delay")
	ledgerPath, _ := command.Flags().GetString("ledger")
	timeout, _ := command.Flags().GetDuration("timeout")

	settings := tracker.Settings{Url: url, Nonce: nonce}
	if siteURL != "" {
		trackerSettings, resp := model.NewAPIClient(siteURL).GetTrackerSettings(postId)
		if resp.Error != nil {
			return errors.Wrap(resp.Error, "failed to fetch tracker settings")
		}
		if trackerSettings == nil {
			return errors.New("failed to decode tracker settings")
		}

		settings = tracker.SettingsFromTracker(trackerSettings)
		if !command.Flags().Changed("delay") {
			delay = trackerSettings.Delay
		}
	}

	if settings.Url == "" || settings.Nonce == "" {
		return errors.New("need --site-url, or both --url and --nonce")
	}

	storage, err := tracker.NewSQLiteStorage(ledgerPath)
	if err != nil {
		return err
	}
	defer storage.Close()

	t := tracker.New(settings, storage, tracker.WithTimeout(timeout))
	defer t.Close()

	t.ScheduleReport(postId, delay)
	t.Wait()

	fmt.Fprintln(command.OutOrStdout(), t.ViewedPosts())
	return nil
}
