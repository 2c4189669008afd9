package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"loran-sim/internal/common"
	"loran-sim/internal/config"
	"loran-sim/internal/export"
	"loran-sim/internal/multilateration"
	"loran-sim/internal/simulation"
	"loran-sim/internal/visualization"

	"github.com/spf13/cobra"
)

var (
	configPath string
	workers    int
	refinement string
	truth      string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "loran-sim",
	Short: "LORAN-style time-difference-of-arrival positioning simulator",
	Long: `loran-sim estimates a receiver position from the arrival time differences
of a master and two slave transmitters, and draws the hyperbola each time
difference defines.

Scenarios are YAML files; without --config the built-in demo is used
(master (50,250), slaves (100,200) and (300,100), 50us and 75us).`,
	SilenceUsage: true,
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the scenario once and print the estimate",
	Example: `  loran-sim solve
  loran-sim solve --truth 220,260 --refine newton`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, _, err := setup(cmd)
		if err != nil {
			return err
		}
		var receiver *simulation.Receiver
		if truth != "" {
			if receiver, err = observeTruth(sim, truth); err != nil {
				return err
			}
		}

		f := sim.Step()
		log.Printf("[%s] %s", sim.ID(), sim)

		fmt.Printf("receiver: %.3f, %.3f\n", f.Receiver.Position.X, f.Receiver.Position.Y)
		fmt.Printf("residual: %.6f\n", f.Receiver.ResidualError)
		fmt.Printf("refined:  %v\n", f.Receiver.Refined)
		if receiver != nil {
			locErr, err := multilateration.LocalizationError(receiver.GetPosition(), f.Receiver.Position)
			if err != nil {
				return err
			}
			fmt.Printf("error:    %.3f\n", locErr)
		}
		return nil
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the scenario frame to an image file",
	Example: `  loran-sim plot -o frame.png
  loran-sim plot --config scenario.yaml -o frame.svg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, _, err := setup(cmd)
		if err != nil {
			return err
		}
		if truth != "" {
			if _, err := observeTruth(sim, truth); err != nil {
				return err
			}
		}
		f := sim.Step()
		if f.Degenerate() {
			log.Printf("[%s] warning: %v %v", sim.ID(), f.ErrA, f.ErrB)
		}
		if err := export.Save(f, outputPath, export.DefaultOptions()); err != nil {
			return err
		}
		log.Printf("[%s] wrote %s", sim.ID(), outputPath)
		return nil
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the interactive view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		w := cfg.Window
		log.Printf("[%s] opening %dx%d window", sim.ID(), w.Width, w.Height)
		return visualization.Run(sim, visualization.Options{
			Width:    w.Width,
			Height:   w.Height,
			Title:    w.Title,
			TPS:      w.TicksRate,
			PanSpeed: w.PanSpeed,
			ZoomStep: w.ZoomStep,
			ZoomMin:  w.ZoomMin,
			ZoomMax:  w.ZoomMax,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "scenario YAML file (default: built-in demo)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "concurrent grid scan workers (overrides config)")
	rootCmd.PersistentFlags().StringVar(&refinement, "refine", "", "refinement after the grid scan: none, newton, nelder-mead (overrides config)")

	solveCmd.Flags().StringVar(&truth, "truth", "", "derive the time difference from a receiver at x,y")
	plotCmd.Flags().StringVar(&truth, "truth", "", "derive the time difference from a receiver at x,y")
	plotCmd.Flags().StringVarP(&outputPath, "output", "o", "frame.png", "output image; format follows the extension")

	rootCmd.AddCommand(solveCmd, plotCmd, windowCmd)
}

// setup loads the scenario, applies flag overrides and builds the simulation.
func setup(cmd *cobra.Command) (*simulation.Simulation, *config.Scenario, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, nil, err
		}
	}
	if cmd.Flags().Changed("workers") {
		cfg.Solver.Workers = workers
	}
	if cmd.Flags().Changed("refine") {
		cfg.Solver.Refinement = refinement
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	solverCfg, err := cfg.SolverSettings()
	if err != nil {
		return nil, nil, err
	}
	solver, err := multilateration.NewSolver(solverCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating solver: %w", err)
	}
	evaluator, err := simulation.NewEvaluator(solver, cfg.CurveSettings())
	if err != nil {
		return nil, nil, err
	}

	st := cfg.Stations
	sim, err := simulation.NewSimulation(
		st.Master.Vector(), st.SlaveA.Vector(), st.SlaveB.Vector(),
		cfg.TimeDifferenceMicroseconds.Vector(),
		evaluator,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating simulation: %w", err)
	}
	return sim, cfg, nil
}

func observeTruth(sim *simulation.Simulation, arg string) (*simulation.Receiver, error) {
	pos, err := parsePoint(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid --truth: %w", err)
	}
	r, err := simulation.NewReceiver(pos)
	if err != nil {
		return nil, err
	}
	if err := sim.ObserveReceiver(r); err != nil {
		return nil, err
	}
	log.Printf("[%s] %s", sim.ID(), r)
	return r, nil
}

func parsePoint(s string) (common.Vector, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return common.Vector{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return common.Vector{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return common.Vector{}, err
	}
	return common.NewVector(x, y), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
