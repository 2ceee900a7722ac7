package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okvee/rpctoast/common"
	"github.com/okvee/rpctoast/config"
	"github.com/okvee/rpctoast/core"
	"github.com/okvee/rpctoast/credentials"
	"github.com/okvee/rpctoast/notify"
	notifycli "github.com/okvee/rpctoast/notify/cli"
	"github.com/okvee/rpctoast/notify/telegram"
	"github.com/okvee/rpctoast/rpc"
	"github.com/okvee/rpctoast/types"
)

func buildChannel(cfg *config.Config) (*notify.Registry, error) {
	reg := notify.NewRegistry()

	for _, backend := range cfg.Backends {
		// TODO abstract to initializer map
		switch backend.Type {
		case types.BackendCLI:
			reg.Register(types.BackendCLI, notifycli.NewTerminalChannel(os.Stdout, &common.DefaultClock{}), backend.MinSeverity)
		case types.BackendTelegram:
			token, err := credentials.TelegramToken()
			if err != nil {
				return nil, err
			}
			channel, err := telegram.NewTelegramChannel(token, cfg.BackendSettings.TelegramChatID) // TODO validate presence of chat id
			if err != nil {
				return nil, err
			}
			reg.Register(types.BackendTelegram, channel, backend.MinSeverity)
		}
	}

	return reg, nil
}

// parseArgs turns repeated k=v flags into the invocation argument mapping.
// Values that parse as JSON keep their type, anything else stays a string.
func parseArgs(raw []string) (map[string]any, error) {
	args := make(map[string]any, len(raw))
	for _, pair := range raw {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed argument '%s', expected key=value", pair)
		}
		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err != nil {
			typed = value
		}
		args[key] = typed
	}
	return args, nil
}

func buildCallCommand(coordinator *core.Coordinator) *cobra.Command {
	var (
		rawArgs    []string
		loadingMsg string
		successMsg string
		errorMsg   string
		silent     bool
	)

	callCommand := &cobra.Command{
		Use:   "call <command>",
		Short: "invoke a remote command on the daemon while keeping the notification channel in sync with its outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			args, err := parseArgs(rawArgs)
			if err != nil {
				return err
			}

			directive := &types.Directive{
				Loading: loadingMsg,
				Silent:  silent,
			}
			if successMsg != "" {
				directive.Success = types.Literal[json.RawMessage](successMsg)
			}
			if errorMsg != "" {
				directive.Error = types.Literal[error](errorMsg)
			}

			result, err := coordinator.Execute(
				cmd.Context(),
				&types.InvocationRequest{
					Name: cmdArgs[0],
					Args: args,
				},
				directive,
			)
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(append(result, '\n'))
			return nil
		},
	}
	callCommand.Flags().StringArrayVar(&rawArgs, "arg", nil, "command argument in key=value form, repeatable")
	callCommand.Flags().StringVar(&loadingMsg, "loading", "", "loading notification message")
	callCommand.Flags().StringVar(&successMsg, "success", "", "success notification message (omit to suppress)")
	callCommand.Flags().StringVar(&errorMsg, "error", "", "error notification message")
	callCommand.Flags().BoolVar(&silent, "silent", false, "skip the notification channel entirely")
	return callCommand
}

func buildNotifyCommand(coordinator *core.Coordinator) *cobra.Command {
	var (
		detail string
		copyIt bool
	)

	notifyCommand := &cobra.Command{
		Use:   "notify <severity> <message>",
		Short: "fire one notification without invoking anything",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			severity, err := types.ParseSeverity(cmdArgs[0])
			if err != nil {
				return err
			}
			coordinator.Emit(cmd.Context(), types.Note{
				Severity:   severity,
				Message:    cmdArgs[1],
				Detail:     detail,
				CopyDetail: copyIt,
			})
			return nil
		},
	}
	notifyCommand.Flags().StringVar(&detail, "detail", "", "detail payload shown next to error notifications")
	notifyCommand.Flags().BoolVar(&copyIt, "copy", false, "copy the detail payload to the clipboard (error severity only)")
	return notifyCommand
}

func buildHistoryCommand(coordinator *core.Coordinator) *cobra.Command {
	var clear bool

	historyCommand := &cobra.Command{
		Use:   "history",
		Short: "list journaled invocations",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			journal := coordinator.HistoryJournal()
			if journal == nil {
				return fmt.Errorf("journal is disabled in config")
			}

			if clear {
				return journal.Clear(cmd.Context())
			}

			recs, err := journal.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, rec := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-5s  %s (%d sec)\n",
					rec.ID, rec.Status, rec.Name, rec.FinishedAt-rec.StartedAt)
			}
			return nil
		},
	}
	historyCommand.Flags().BoolVar(&clear, "clear", false, "erase all journaled invocations")
	return historyCommand
}

func buildTelegramTokenCommand() *cobra.Command {
	var clear bool

	tokenCommand := &cobra.Command{
		Use:   "telegram-token [token]",
		Short: "store the telegram bot token in the system keyring",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if clear {
				return credentials.DeleteTelegramToken()
			}
			if len(cmdArgs) != 1 {
				return fmt.Errorf("expected exactly one token argument")
			}
			return credentials.SetTelegramToken(cmdArgs[0])
		},
	}
	tokenCommand.Flags().BoolVar(&clear, "clear", false, "remove the stored token")
	return tokenCommand
}

func setupRootCommand(coordinator *core.Coordinator) *cobra.Command {
	root := cobra.Command{
		Use:   os.Args[0],
		Short: "Remote command invocation paired with user-facing notifications",
	}

	root.AddCommand(
		buildCallCommand(coordinator),
		buildNotifyCommand(coordinator),
		buildHistoryCommand(coordinator),
		buildTelegramTokenCommand(),
	)
	return &root
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := common.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	channel, err := buildChannel(cfg)
	if err != nil {
		return err
	}

	client, err := rpc.NewClient(cfg.SocketPath)
	if err != nil {
		return err
	}

	coordinator, err := core.NewCoordinator(cfg, client, channel, &common.DefaultClock{}, core.UUIDInvocationGen, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Deadline.Std())
	defer cancel()

	return setupRootCommand(coordinator).ExecuteContext(ctx)
}

func main() {
	// TODO monitor OS signals
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Printf("failed to run rpctoast: %v\n", err)
		os.Exit(1)
	}
}
