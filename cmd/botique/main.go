package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"botique/internal/config"
	"botique/internal/directline"
	"botique/internal/domain"
	"botique/internal/registry"
	"botique/internal/store"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:     "botique",
		Short:   "Botique: DirectLine message adapter tooling",
		Long:    "Botique translates between the internal chat-message model and DirectLine activities.",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.botique/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(composeCmd())
	root.AddCommand(decomposeCmd())
	root.AddCommand(historyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config and registry directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := config.DefaultConfigPath()
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			if err := os.MkdirAll(config.ExpandPath(cfg.Registry.Dir), 0o755); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath, "registry", cfg.Registry.Dir)
			return nil
		},
	}
}

func composeCmd() *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "compose [file]",
		Short: "Compose a DirectLine activity from a conversation entry",
		Long:  "Reads a UserConversation JSON document from a file (or stdin) and prints the composed activity. With --id, the entry is loaded from the conversation store instead.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			adapter := newAdapter(cfg)

			var conv domain.UserConversation
			if conversationID != "" {
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				entry, err := st.Get(cmd.Context(), conversationID)
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("conversation %q not found", conversationID)
				}
				conv = *entry
			} else {
				if err := readJSONArg(args, &conv); err != nil {
					return err
				}
			}

			profile, err := lookupProfile(cmd.Context(), cfg, conv.UserID)
			if err != nil {
				return err
			}

			activity := adapter.ComposeActivity(conv, profile)
			if activity == nil {
				logger.Warn("conversation entry has no representable content", "id", conv.ID)
				return nil
			}
			return printJSON(activity)
		},
	}

	cmd.Flags().StringVar(&conversationID, "id", "", "load the conversation entry from the store by id")
	return cmd
}

func decomposeCmd() *cobra.Command {
	var (
		botID  string
		userID string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "decompose [file]",
		Short: "Decompose a DirectLine activity into an internal user message",
		Long:  "Reads an activity JSON document from a file (or stdin) and prints the decomposed user message. The bot identity is resolved from the registry.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			adapter := newAdapter(cfg)

			var activity directline.Activity
			if err := readJSONArg(args, &activity); err != nil {
				return err
			}

			bot := domain.BotPlatformData{ID: botID}
			if botID != "" {
				reg, err := registry.Load(config.ExpandPath(cfg.Registry.Dir), logger)
				if err != nil {
					return err
				}
				if resolved, err := reg.Bot(botID); err == nil {
					bot = resolved
				} else {
					logger.Warn("bot not in registry, using bare id", "bot", botID)
				}
			}

			msg, err := adapter.DecomposeActivity(activity, userID, bot)
			if err != nil {
				return err
			}

			if save {
				if err := saveMessage(cmd.Context(), cfg, msg); err != nil {
					return err
				}
			}
			return printJSON(msg)
		},
	}

	cmd.Flags().StringVar(&botID, "bot", "", "bot id (resolved against the registry)")
	cmd.Flags().StringVar(&userID, "user", "", "internal user id")
	cmd.Flags().BoolVar(&save, "save", false, "append the decomposed message to the conversation store")
	return cmd
}

func historyCmd() *cobra.Command {
	var (
		userID       string
		limit        int
		asActivities bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored conversation entries for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			convs, err := st.List(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}

			if !asActivities {
				return printJSON(convs)
			}

			adapter := newAdapter(cfg)
			profile, err := st.Profile(cmd.Context(), userID)
			if err != nil {
				return err
			}
			activities := make([]*directline.Activity, 0, len(convs))
			for _, conv := range convs {
				if activity := adapter.ComposeActivity(conv, profile); activity != nil {
					activities = append(activities, activity)
				}
			}
			return printJSON(activities)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "internal user id")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum entries to list")
	cmd.Flags().BoolVar(&asActivities, "activities", false, "print entries as composed DirectLine activities")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	path := resolveConfigPath()
	if _, err := os.Stat(config.ExpandPath(path)); os.IsNotExist(err) {
		return config.Defaults(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.General.LogLevel)}))
	return cfg, nil
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newAdapter(cfg *config.Config) *directline.Adapter {
	return directline.New(directline.Options{
		ButtonTemplateEncoding: directline.ButtonTemplateEncoding(cfg.Adapter.ButtonTemplateEncoding),
		EncodeURLParameters:    cfg.Adapter.EncodeURLParameters,
	}, logger)
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if !cfg.Store.Enabled {
		return nil, fmt.Errorf("conversation store is disabled in config")
	}
	return store.NewSQLiteStore(config.ExpandPath(cfg.Store.DBPath), logger)
}

// lookupProfile fetches the user's display profile from the store when
// enabled; otherwise composition proceeds with an empty profile.
func lookupProfile(ctx context.Context, cfg *config.Config, userID string) (domain.ChatUserProfile, error) {
	if !cfg.Store.Enabled || userID == "" {
		return domain.ChatUserProfile{}, nil
	}
	st, err := openStore(cfg)
	if err != nil {
		return domain.ChatUserProfile{}, err
	}
	defer st.Close()
	return st.Profile(ctx, userID)
}

func saveMessage(ctx context.Context, cfg *config.Config, msg *domain.UserMessage) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Append(ctx, domain.UserConversation{
		ID:        msg.OriginID,
		BotID:     msg.Bot.ID,
		UserID:    msg.UserID,
		Timestamp: msg.DateReceived,
		FromBot:   false,
		User:      msg,
	})
}

// readJSONArg decodes JSON from the file named in args, or stdin when no
// file (or "-") is given.
func readJSONArg(args []string, v any) error {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
