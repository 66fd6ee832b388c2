package commands

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/clear-ness/view-counter/model"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "read and write view counters",
}

var viewsGetCmd = &cobra.Command{
	Use:   "get [post_id]",
	Short: "print the view count of a post",
	Args:  cobra.ExactArgs(1),
	RunE:  viewsGetCmdF,
}

var viewsSetCmd = &cobra.Command{
	Use:   "set [post_id] [views]",
	Short: "overwrite the view count of a post",
	Args:  cobra.ExactArgs(2),
	RunE:  viewsSetCmdF,
}

func init() {
	viewsCmd.AddCommand(viewsGetCmd, viewsSetCmd)
	RootCmd.AddCommand(viewsCmd)
}

func viewsGetCmdF(command *cobra.Command, args []string) error {
	postId, err := parsePostIdArg(args[0])
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Srv.Shutdown()

	views, countable, appErr := a.GetPostViews(postId)
	if appErr != nil {
		return appErr
	}

	postViews := &model.PostViews{PostId: postId, Views: views, Countable: countable}
	fmt.Fprintln(command.OutOrStdout(), postViews.ToJson())
	return nil
}

func viewsSetCmdF(command *cobra.Command, args []string) error {
	postId, err := parsePostIdArg(args[0])
	if err != nil {
		return err
	}

	views, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid view count %q", args[1])
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Srv.Shutdown()

	if appErr := a.SetPostViews(postId, views); appErr != nil {
		return appErr
	}

	return nil
}
