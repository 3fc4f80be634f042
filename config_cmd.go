package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hmtkvs/speedread/internal/config"
)

var showConfig bool

const defaultConfig = `# reading speed in words per minute (100-1000)
wpm: 300
# words shown at a time (1-5)
words_at_time: 1
# display scale hint, passed through to the renderer
font_scale: 1.0

# spoken narration
narration:
  # speak the text while reading
  enabled: false
  # narration engine: mock, piper, or google
  engine: "piper"
  # voice name, engine specific (e.g. en-US-Standard-A for google)
  voice: ""
  # language code for cloud engines
  language: "en-US"
  # PCM sample rate of the audio pipeline
  sample_rate: 22050

  # local piper engine
  piper:
    binary: "piper"
    # model: "/path/to/voice.onnx"
    timeout: "30s"

  # Google Cloud TTS; credentials come from GOOGLE_APPLICATION_CREDENTIALS
  google:
    timeout: "15s"

# reading history
stats:
  enabled: true
  # path: "~/.local/share/speedread/history.db"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the speedread config file",
	Long:    paragraph(fmt.Sprintf("\n%s the speedread config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("speedread config\nspeedread config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if showConfig {
			cfg, err := config.FromViper()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("unable to render config: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}

		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("speedread", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&showConfig, "show", false, "print the effective configuration and exit")
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
