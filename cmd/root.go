package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.0.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════╗",
		"║    ██████╗  █████╗ ████████╗ █████╗  ██████╗ ███████╗   ║",
		"║    ██╔══██╗██╔══██╗╚══██╔══╝██╔══██╗██╔════╝ ██╔════╝   ║",
		"║    ██║  ██║███████║   ██║   ███████║██║  ███╗█████╗     ║",
		"║    ██║  ██║██╔══██║   ██║   ██╔══██║██║   ██║██╔══╝     ║",
		"║    ██████╔╝██║  ██║   ██║   ██║  ██║╚██████╔╝███████╗   ║",
		"║    ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝ ╚══════╝   ║",
		"║                                                          ║",
		"║          Synthetic banking data, bulk and live           ║",
		"╚══════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                    ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "datagen",
	Short: "Synthetic banking data generator",
	Long: `
datagen produces a referentially valid synthetic banking corpus.

The bulk command generates the initial datasets for every entity in
dependency order and marks the corpus ready. The run command then keeps
every dataset growing with one generator per entity.

Entities:
- customers, accounts, transactions, loans, branches
- marketing, digital interactions, risk alerts
- shares, depots, AML compliance records`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("datagen version %s\n", Version)
			return
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./datagen.config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the datasets")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("datagen.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "failed to read config file:", err)
		}
	}
}
