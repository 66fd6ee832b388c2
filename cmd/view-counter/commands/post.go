package commands

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/clear-ness/view-counter/model"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "manage the posts views are counted for",
}

var postSaveCmd = &cobra.Command{
	Use:     "save",
	Short:   "create or update a post",
	Example: "  post save --id 42 --type post --status publish --title \"Hello\"",
	Args:    cobra.NoArgs,
	RunE:    postSaveCmdF,
}

var postGetCmd = &cobra.Command{
	Use:   "get [post_id]",
	Short: "print a post",
	Args:  cobra.ExactArgs(1),
	RunE:  postGetCmdF,
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete [post_id]",
	Short: "delete a post and its meta data",
	Args:  cobra.ExactArgs(1),
	RunE:  postDeleteCmdF,
}

func init() {
	postSaveCmd.Flags().Int64("id", 0, "post id")
	postSaveCmd.Flags().String("type", model.POST_TYPE_POST, "post type")
	postSaveCmd.Flags().String("status", model.POST_STATUS_PUBLISH, "post status")
	postSaveCmd.Flags().String("title", "", "post title")
	postSaveCmd.MarkFlagRequired("id")

	postCmd.AddCommand(postSaveCmd, postGetCmd, postDeleteCmd)
	RootCmd.AddCommand(postCmd)
}

func parsePostIdArg(arg string) (int64, error) {
	postId, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || postId < 1 {
		return 0, errors.Errorf("invalid post id %q", arg)
	}

	return postId, nil
}

func postSaveCmdF(command *cobra.Command, args []string) error {
	postId, _ := command.Flags().GetInt64("id")
	postType, _ := command.Flags().GetString("type")
	status, _ := command.Flags().GetString("status")
	title, _ := command.Flags().GetString("title")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Srv.Shutdown()

	post, appErr := a.SavePost(&model.Post{
		Id:     postId,
		Type:   postType,
		Status: status,
		Title:  title,
	})
	if appErr != nil {
		return appErr
	}

	fmt.Fprintln(command.OutOrStdout(), post.ToJson())
	return nil
}

func postGetCmdF(command *cobra.Command, args []string) error {
	postId, err := parsePostIdArg(args[0])
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Srv.Shutdown()

	post, appErr := a.GetPost(postId)
	if appErr != nil {
		return appErr
	}

	fmt.Fprintln(command.OutOrStdout(), post.ToJson())
	return nil
}

func postDeleteCmdF(command *cobra.Command, args []string) error {
	postId, err := parsePostIdArg(args[0])
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Srv.Shutdown()

	if appErr := a.DeletePost(postId); appErr != nil {
		return appErr
	}

	return nil
}
