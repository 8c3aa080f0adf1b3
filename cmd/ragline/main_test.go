package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestIngestCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "ragline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "folder",
						Aliases: []string{"f"},
					},
				},
			},
		},
	}

	t.Run("config flag has default value", func(t *testing.T) {
		var configFlag *cli.StringFlag
		for _, flag := range app.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "config" {
				configFlag = f
				break
			}
		}
		require.NotNil(t, configFlag)
		assert.Equal(t, "config.yaml", configFlag.Value)
	})

	t.Run("missing config file fails", func(t *testing.T) {
		args := []string{"ragline", "--config", "/no/such/config.yaml", "ingest"}
		err := app.Run(args)
		require.Error(t, err)
	})
}

func TestAskCommandRequiresDataset(t *testing.T) {
	app := &cli.App{
		Name: "ragline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml"},
		},
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "question", Aliases: []string{"q"}},
					&cli.StringFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Required: true,
					},
				},
			},
		},
	}

	err := app.Run([]string{"ragline", "ask", "--question", "how tall?"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset")
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		require.NoError(t, newApp().Run([]string{"test", "-l", "debug"}))
	})
}
