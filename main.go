// Package main provides the entry point for the speedread CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hmtkvs/speedread/internal/audio"
	"github.com/hmtkvs/speedread/internal/config"
	"github.com/hmtkvs/speedread/internal/speech"
	"github.com/hmtkvs/speedread/internal/stats"
	"github.com/hmtkvs/speedread/reader"
	"github.com/hmtkvs/speedread/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile    string
	readClipboard bool
	wpmFlag       int
	wordsFlag     int
	narrateFlag   bool
	engineFlag    string
	voiceFlag     string

	rootCmd = &cobra.Command{
		Use:   "speedread [SOURCE]",
		Short: "Read text one word at a time, fast",
		Long: paragraph(fmt.Sprintf(
			"\nRead a file, stdin, or the clipboard %s: words flash at a fixed focus point at the pace you choose, with optional spoken narration.",
			keyword("one word group at a time"),
		)),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		RunE:             execute,
	}
)

// textSource is the resolved reading input.
type textSource struct {
	text string
	path string // non-empty only for watchable file sources
	name string // display name
}

// resolveSource picks the text to read: the clipboard, piped stdin, an
// explicit "-", or a file path with ~ expansion.
func resolveSource(args []string) (*textSource, error) {
	if readClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("unable to read clipboard: %w", err)
		}
		return &textSource{text: text, name: "clipboard"}, nil
	}

	fromStdin := len(args) == 1 && args[0] == "-"
	if !fromStdin && len(args) == 0 {
		// No argument: accept piped stdin, otherwise there is nothing to read.
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("missing text source: pass a file, pipe stdin, or use --clipboard")
		}
		fromStdin = true
	}
	if fromStdin {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read stdin: %w", err)
		}
		return &textSource{text: string(b), name: "stdin"}, nil
	}

	path, err := homedir.Expand(args[0])
	if err != nil {
		return nil, fmt.Errorf("unable to expand path: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}
	return &textSource{text: string(b), path: abs, name: filepath.Base(abs)}, nil
}

// buildNarrator constructs the speech pipeline for the configured engine.
// A nil return with no error means narration stays unavailable.
func buildNarrator(ctx context.Context, cfg config.Config) (reader.Narrator, func(), error) {
	var (
		synth speech.Synthesizer
		err   error
	)
	switch cfg.Narration.Engine {
	case config.EngineMock:
		synth = speech.NewMockSynthesizer()
	case config.EnginePiper:
		synth, err = speech.NewPiperSynthesizer(speech.PiperOptions{
			Binary:     cfg.Narration.Piper.Binary,
			ModelPath:  cfg.Narration.Piper.Model,
			SampleRate: cfg.Narration.SampleRate,
			Timeout:    cfg.Narration.Piper.Timeout,
		}, log.Default())
	case config.EngineGoogle:
		synth, err = speech.NewGoogleSynthesizer(ctx, speech.GoogleOptions{
			LanguageCode: cfg.Narration.Language,
			DefaultVoice: cfg.Narration.Voice,
			SampleRate:   cfg.Narration.SampleRate,
			Timeout:      cfg.Narration.Google.Timeout,
		}, log.Default())
	default:
		err = fmt.Errorf("%w: %s", speech.ErrEngineNotFound, cfg.Narration.Engine)
	}
	if err != nil {
		return nil, nil, err
	}

	player := audio.NewOtoPlayer(log.Default())
	svc := speech.NewService(synth, player)
	cleanup := func() {
		if err := player.Close(); err != nil {
			log.Debug("closing audio player", "err", err)
		}
	}
	return svc, cleanup, nil
}

// watchSource forwards file changes into the running program. Editors often
// replace the file, so a removed watch is re-added.
func watchSource(path string, send func(ui.ReloadMsg)) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to watch file: %w", err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("unable to watch %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if ev.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
					_ = w.Add(path)
				}
				b, err := os.ReadFile(path)
				if err != nil {
					log.Debug("source changed but is unreadable", "path", path, "err", err)
					continue
				}
				log.Debug("source file changed, reloading", "path", path)
				send(ui.ReloadMsg{Text: string(b)})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Debug("watcher error", "err", err)
			}
		}
	}()
	return w, nil
}

func execute(_ *cobra.Command, args []string) error {
	cfg, err := config.FromViper()
	if err != nil {
		return err
	}

	src, err := resolveSource(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	narrator, closeAudio, err := buildNarrator(ctx, cfg)
	if err != nil {
		if cfg.Narration.Enabled {
			return fmt.Errorf("narration engine %q unavailable: %w", cfg.Narration.Engine, err)
		}
		log.Debug("narration engine unavailable", "engine", cfg.Narration.Engine, "err", err)
		narrator = nil
	}
	if closeAudio != nil {
		defer closeAudio()
	}

	opts := []reader.Option{reader.WithSettings(cfg.Settings())}
	if narrator != nil {
		opts = append(opts, reader.WithNarrator(narrator))
	}
	eng := reader.NewEngine(opts...)
	defer eng.Cleanup()

	if err := eng.SetText(src.text); err != nil {
		return fmt.Errorf("nothing to read from %s: %w", src.name, err)
	}

	p := ui.NewProgram(eng, ui.Config{Path: src.path, SourceName: src.name}, src.text)

	if src.path != "" {
		w, err := watchSource(src.path, func(msg ui.ReloadMsg) { p.Send(msg) })
		if err != nil {
			log.Warn("live reload disabled", "err", err)
		} else {
			defer w.Close() //nolint:errcheck
		}
	}

	started := time.Now()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run program: %w", err)
	}

	if cfg.Stats.Enabled {
		snap := eng.Snapshot()
		recordSession(cfg, stats.Session{
			StartedAt: started,
			EndedAt:   time.Now(),
			WordsRead: snap.Cursor,
			WPM:       snap.Settings.WPM,
			Source:    src.name,
		})
	}
	return nil
}

// recordSession persists a finished run. Failures only log: losing a stats
// row must not fail the command.
func recordSession(cfg config.Config, sess stats.Session) {
	path, err := statsPath(cfg)
	if err != nil {
		log.Warn("could not resolve stats path", "err", err)
		return
	}
	store, err := stats.Open(path)
	if err != nil {
		log.Warn("could not open stats store", "err", err)
		return
	}
	defer store.Close() //nolint:errcheck
	if err := store.RecordSession(sess); err != nil {
		log.Warn("could not record session", "err", err)
	}
}

func statsPath(cfg config.Config) (string, error) {
	if strings.TrimSpace(cfg.Stats.Path) != "" {
		return homedir.Expand(cfg.Stats.Path)
	}
	scope := gap.NewScope(gap.User, "speedread")
	return scope.DataPath("history.db")
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().BoolVarP(&readClipboard, "clipboard", "c", false, "read the text to display from the clipboard")
	rootCmd.Flags().IntVarP(&wpmFlag, "wpm", "w", 0, "reading speed in words per minute")
	rootCmd.Flags().IntVarP(&wordsFlag, "words", "g", 0, "words shown at a time (1-5)")
	rootCmd.Flags().BoolVarP(&narrateFlag, "narrate", "n", false, "speak the text while reading")
	rootCmd.Flags().StringVar(&engineFlag, "engine", "", "narration engine (mock, piper, google)")
	rootCmd.Flags().StringVar(&voiceFlag, "voice", "", "narration voice name")

	_ = viper.BindPFlag("wpm", rootCmd.Flags().Lookup("wpm"))
	_ = viper.BindPFlag("words_at_time", rootCmd.Flags().Lookup("words"))
	_ = viper.BindPFlag("narration.enabled", rootCmd.Flags().Lookup("narrate"))
	_ = viper.BindPFlag("narration.engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("narration.voice", rootCmd.Flags().Lookup("voice"))

	config.SetDefaults()

	rootCmd.AddCommand(configCmd, statsCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "speedread")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find the configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "speedread")}, dirs...)
	}

	if c := os.Getenv("SPEEDREAD_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("speedread")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("speedread")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "speedread.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
