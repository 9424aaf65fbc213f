package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/orchesterbuero/dienstplan/internal/config"
	"github.com/orchesterbuero/dienstplan/internal/duty"
	"github.com/orchesterbuero/dienstplan/internal/logging"
	"github.com/orchesterbuero/dienstplan/internal/models"
	"github.com/orchesterbuero/dienstplan/internal/planfile"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

// Flags shared by the plan-reading commands.
var (
	planPath     string
	contractPath string
	rosterPath   string
	forceTVK     bool
)

var rootCmd = &cobra.Command{
	Use:   "dienstplan",
	Short: "Dienstplan - orchestra duty plan validation",
	Long:  "Dienstplan computes duty values from a season plan and checks them against collective agreement rules (TVK) and the house agreement (HTV).",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&planPath, "plan", "", "season plan YAML file")
	rootCmd.PersistentFlags().StringVar(&contractPath, "contract", "", "contract YAML overriding built-in defaults")
	rootCmd.PersistentFlags().StringVar(&rosterPath, "roster", "", "roster YAML for individual plans")
	rootCmd.PersistentFlags().BoolVar(&forceTVK, "tvk", false, "evaluate under plain TVK rules, ignoring the house agreement")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(individualCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads process configuration (called by commands that need it).
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = logging.Setup(cfg.Environment)
	return nil
}

// loadContract resolves the contract: --contract flag, then the env-configured
// path, then compiled defaults. --tvk switches the house agreement off.
func loadContract() (*config.Contract, error) {
	path := contractPath
	if path == "" {
		path = cfg.ContractPath
	}
	var (
		contract *config.Contract
		err      error
	)
	if path == "" {
		contract = config.DefaultContract()
	} else if contract, err = config.LoadContract(path); err != nil {
		return nil, fmt.Errorf("load contract: %w", err)
	}
	if forceTVK {
		contract.HTV.Active = false
	}
	return contract, nil
}

// loadPlan reads the plan file and computes the collective duty plan.
func loadPlan(contract *config.Contract) (*planfile.PlanFile, *models.Plan, error) {
	if planPath == "" {
		return nil, nil, fmt.Errorf("--plan is required")
	}
	pf, err := planfile.Load(planPath)
	if err != nil {
		return nil, nil, err
	}
	if pf.State != "" {
		contract.Orchestra.State = pf.State
	}
	orchestra := pf.Orchestra
	if orchestra == "" {
		orchestra = contract.Orchestra.Name
	}

	started := time.Now()
	duties := duty.CalculateRange(pf.Events, contract, pf.Start, pf.End)
	plan := models.NewPlan(orchestra, duties, pf.Start, pf.End)
	logger.Info().
		Str("plan", planPath).
		Int("events", len(pf.Events)).
		Int("weeks", len(plan.Weeks)).
		Dur("elapsed", time.Since(started)).
		Msg("plan computed")
	return pf, plan, nil
}
