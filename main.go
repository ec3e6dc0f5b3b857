package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local overrides (STORMCAST_MODEL etc.); absence is
	// not an error.
	_ = godotenv.Load()

	if len(os.Args) > 1 {
		cmd := os.Args[1]
		switch cmd {
		case "train":
			if err := RunTrainCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "forecast":
			if err := RunForecastCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "evaluate":
			if err := RunEvaluateCommand(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
			printUsage()
			os.Exit(1)
		}
	}

	printUsage()
}

// defaultModelPath resolves the checkpoint path: STORMCAST_MODEL from the
// environment (or .env), falling back to forecaster.bin.
func defaultModelPath() string {
	if p := os.Getenv("STORMCAST_MODEL"); p != "" {
		return p
	}
	return "forecaster.bin"
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  stormcast [command] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  train       Train a forecaster on a station CSV")
	fmt.Println("  forecast    Print a 3-day forecast from the tail of a CSV")
	fmt.Println("  evaluate    Report holdout error of a trained forecaster")
	fmt.Println("  help        Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  stormcast train -data=basel.csv -model=forecaster.bin -epochs=50")
	fmt.Println("  stormcast forecast -data=basel.csv -model=forecaster.bin")
	fmt.Println("  stormcast evaluate -data=basel.csv -model=forecaster.bin")
	fmt.Println()
}
