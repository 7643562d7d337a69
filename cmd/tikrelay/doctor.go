package main

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"

	"tikrelay/internal/config"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your tikrelay installation",
		Long: `Verifies that tikrelay's configuration, bot token, extraction
backend, and workspace are correctly set up. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("tikrelay doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file (optional: env-only setups are fine)
			if cfgPath == "" {
				printWarn("Config file", "none found, using defaults + environment")
				warned++
			} else {
				printPass("Config file", cfgPath)
				passed++
			}

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				failed++
				fmt.Printf("\nResults: %d passed, %d warnings, %d failed\n", passed, warned, failed)
				return fmt.Errorf("config unusable")
			}
			printPass("Config validation", "valid")
			passed++

			// 3. Bot token present
			if cfg.Telegram.Token == "" {
				printFail("Bot token", "not set (TIKRELAY_TELEGRAM_TOKEN or telegram.token)")
				failed++
			} else {
				printPass("Bot token", "set")
				passed++
			}

			// 4. Extraction backend on PATH
			if path, err := exec.LookPath(cfg.Download.Binary); err != nil {
				printFail("yt-dlp", fmt.Sprintf("%q not found on PATH", cfg.Download.Binary))
				failed++
			} else {
				printPass("yt-dlp", path)
				passed++
			}

			// 5. Work root writable
			if err := checkWritable(cfg.Relay.WorkRoot); err != nil {
				printFail("Work root", err.Error())
				failed++
			} else {
				printPass("Work root", cfg.Relay.WorkRoot)
				passed++
			}

			// 6. Health port
			if cfg.Health.Enabled {
				if err := checkPort(cfg.Health.Port); err != nil {
					printWarn("Health port", fmt.Sprintf("port %d may be in use: %v", cfg.Health.Port, err))
					warned++
				} else {
					printPass("Health port", fmt.Sprintf(":%d available", cfg.Health.Port))
					passed++
				}
			}

			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running tikrelay.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\ntikrelay should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! tikrelay is ready to run.\n")
			}
			return nil
		},
	}
}

func checkWritable(dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create: %w", err)
	}
	probe := filepath.Join(dir, ".doctor_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	os.Remove(probe)
	return nil
}

func checkPort(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
