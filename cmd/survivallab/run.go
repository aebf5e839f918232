package main

import (
	"context"

	"github.com/spf13/cobra"

	"survivallab/internal/config"
	"survivallab/internal/lab"
	"survivallab/internal/logging"
)

var (
	runConfigPath string
	runSchemaPath string
	runAgents     []string
	runRounds     int
	runBeds       int
	runNurses     int
	runDoctors    int
	runTokens     int
	runAPICalls   int
	runSimRuns    int
	runSeed       int64
	runJSONOut    bool
	runLogFile    string
	runLogLevel   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a multi-round survival session",
	Long:  "run drives the configured agents through repeated shift simulations and prints round results and the final leaderboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath, runSchemaPath)
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriters(cfg, runJSONOut, runLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		req := lab.Request{
			Rounds:         runRounds,
			AgentNames:     runAgents,
			Beds:           runBeds,
			Nurses:         runNurses,
			Doctors:        runDoctors,
			TokensUsed:     runTokens,
			APICalls:       runAPICalls,
			SimulationRuns: runSimRuns,
		}
		if cmd.Flags().Changed("seed") {
			seed := runSeed
			req.Seed = &seed
		}

		log := logging.New(runLogLevel)
		ctx := logging.NewContext(context.Background(), log)

		svc := lab.NewService(cfg, nil)
		result := svc.RunSession(ctx, req, writer)
		log.Info("session complete", "session_id", result.SessionID, "rounds", result.Rounds, "records", len(result.Results))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "config/economics.yaml", "Path to economics configuration document")
	runCmd.Flags().StringVar(&runSchemaPath, "schema", "schemas/economics.cue", "Path to CUE schema file")
	runCmd.Flags().StringSliceVar(&runAgents, "agents", []string{"Triage Optimizer", "Flow Marshal"}, "Agent names to run")
	runCmd.Flags().IntVar(&runRounds, "rounds", 5, "Number of rounds to simulate")
	runCmd.Flags().IntVar(&runBeds, "beds", 20, "Bed count for staffing allocation")
	runCmd.Flags().IntVar(&runNurses, "nurses", 12, "Nurse count for staffing allocation")
	runCmd.Flags().IntVar(&runDoctors, "doctors", 6, "Doctor count for staffing allocation")
	runCmd.Flags().IntVar(&runTokens, "tokens", 1500, "Tokens consumed per agent per round")
	runCmd.Flags().IntVar(&runAPICalls, "api-calls", 15, "API calls per agent per round")
	runCmd.Flags().IntVar(&runSimRuns, "sim-runs", 1, "Simulation runs billed per agent per round")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for reproducible sessions (omit for random shifts)")
	runCmd.Flags().BoolVar(&runJSONOut, "json", false, "Print round records as JSON instead of styled output")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Path to export round records (JSONL)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
