package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/jo-hoe/similarity-game/internal/core"
	"github.com/spf13/cobra"
)

var (
	configPath string

	img1       string
	img2       string
	similarity int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pairctl",
		Short:         "Manage image pairs of the similarity game",
		Long:          "pairctl reads and modifies the configured pair store directly, without a running server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to the YAML configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all stored pairs",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new pair",
		Args:  cobra.NoArgs,
		RunE:  runAdd,
	}
	addCmd.Flags().StringVar(&img1, "img1", "", "Reference of the first image")
	addCmd.Flags().StringVar(&img2, "img2", "", "Reference of the second image")
	addCmd.Flags().IntVar(&similarity, "similarity", 50, "Similarity score of the pair")
	_ = addCmd.MarkFlagRequired("img1")
	_ = addCmd.MarkFlagRequired("img2")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pair by id",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the configured seed pairs into an empty store",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}

	rootCmd.AddCommand(listCmd, addCmd, deleteCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return filepath.Join(".", "config.yaml")
}

// withService opens the configured store for the duration of fn.
func withService(fn func(ctx context.Context, service *core.CoreService) error) error {
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service, err := core.NewCoreService(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		_ = service.Close()
	}()

	return fn(ctx, service)
}

func runList(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, service *core.CoreService) error {
		pairs, err := service.ListPairs(ctx)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			color.New(color.FgHiBlack).Println("No image pairs stored")
			return nil
		}

		cyan := color.New(color.FgCyan, color.Bold)
		for _, pair := range pairs {
			cyan.Printf("%s", pair.ID)
			fmt.Printf("  similarity=%d\n    img1: %s\n    img2: %s\n", pair.Similarity, truncate(pair.Img1), truncate(pair.Img2))
		}
		return nil
	})
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, service *core.CoreService) error {
		pair, err := service.CreatePair(ctx, core.PairInput{Img1: img1, Img2: img2, Similarity: similarity})
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Printf("Created pair %s\n", pair.ID)
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, service *core.CoreService) error {
		err := service.DeletePair(ctx, args[0])
		if errors.Is(err, core.ErrPairNotFound) {
			return fmt.Errorf("pair %s not found", args[0])
		}
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Printf("Deleted pair %s\n", args[0])
		return nil
	})
}

func runSeed(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, service *core.CoreService) error {
		inserted, err := service.SeedPairs(ctx, service.ConfiguredSeedPairs())
		if err != nil {
			return err
		}
		if inserted == 0 {
			color.New(color.FgYellow).Println("Nothing seeded: store not empty or no seed pairs configured")
			return nil
		}
		color.New(color.FgGreen).Printf("Seeded %d pairs\n", inserted)
		return nil
	})
}

// truncate shortens long references such as data URIs for terminal output.
func truncate(reference string) string {
	const maxLength = 72
	runes := []rune(reference)
	if len(runes) <= maxLength {
		return reference
	}
	return string(runes[:maxLength]) + "..."
}
