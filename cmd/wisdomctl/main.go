package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/buildconfig"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/config"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/llm"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/retrieval"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/service"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/store"
)

func main() {
	_ = config.Load()

	rootCmd := &cobra.Command{
		Use:   "wisdomctl",
		Short: "Inspect and exercise the awakened wisdom demo pipeline",
		Long: `wisdomctl works against the same corpus pack the demo server loads.

It validates packs, lists demo questions, and runs the full
baseline-versus-augmented comparison without starting a server.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newValidateCmd(),
		newQuestionsCmd(),
		newAskCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				_ = json.NewEncoder(os.Stdout).Encode(buildconfig.VersionInfo())
				return
			}
			fmt.Printf("wisdomctl version %s (commit %s, built %s)\n",
				buildconfig.Version(), buildconfig.Commit(), buildconfig.Date())
		},
	}
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a corpus pack and print its manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodesPath, _ := cmd.Flags().GetString("nodes")
			questionsPath, _ := cmd.Flags().GetString("questions")
			precomputedPath, _ := cmd.Flags().GetString("precomputed")

			// Node loading is the strict part: any invalid record fails
			// the whole pack. Questions and answers are optional extras.
			nodes, err := store.LoadNodes(nodesPath)
			if err != nil {
				return err
			}

			manifest := domain.PackManifest{
				Name:  config.PackName(),
				Nodes: nodes.Count(),
			}
			if questions, err := store.LoadQuestions(questionsPath); err == nil {
				manifest.Questions = len(questions)
			}
			if table, err := store.LoadPrecomputed(precomputedPath); err == nil {
				manifest.Precomputed = table.Count()
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(manifest)
			}
			fmt.Printf("pack %s: %d nodes, %d questions, %d precomputed answers\n",
				manifest.Name, manifest.Nodes, manifest.Questions, manifest.Precomputed)
			return nil
		},
	}
	cmd.Flags().String("nodes", config.NodesPath(), "Path to the JSONL node corpus")
	cmd.Flags().String("questions", config.QuestionsPath(), "Path to the demo questions file")
	cmd.Flags().String("precomputed", config.PrecomputedPath(), "Path to the precomputed answer table")
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the demo questions shipped with the pack",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("questions")
			questions, err := store.LoadQuestions(path)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string][]string{"questions": questions})
			}
			for i, q := range questions {
				fmt.Printf("%2d. %s\n", i+1, q)
			}
			return nil
		},
	}
	cmd.Flags().String("questions", config.QuestionsPath(), "Path to the demo questions file")
	return cmd
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Run the baseline-versus-augmented comparison for one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			jsonOut, _ := cmd.Flags().GetBool("json")

			if server, _ := cmd.Flags().GetString("server"); server != "" {
				return askServer(server, question, jsonOut)
			}

			k, _ := cmd.Flags().GetInt("k")
			return askOffline(question, k, jsonOut)
		},
	}
	cmd.Flags().Int("k", config.RetrievalK(), "Number of nodes to retrieve")
	cmd.Flags().String("server", "", "Base URL of a running demo server to ask instead of running offline")
	return cmd
}

// askOffline runs the whole pipeline in-process against the mock backend, so
// it needs the precomputed answer table but no API keys and no server.
func askOffline(question string, k int, jsonOut bool) error {
	nodes, err := store.LoadNodes(config.NodesPath())
	if err != nil {
		return err
	}
	precomputed, err := store.LoadPrecomputed(config.PrecomputedPath())
	if err != nil {
		return fmt.Errorf("offline ask needs the precomputed answer table: %w", err)
	}

	generator, err := llm.NewClient(llm.Config{Provider: llm.ProviderMock}, precomputed)
	if err != nil {
		return err
	}

	svc := service.NewComparisonService(retrieval.NewLexicalRetriever(nodes), generator, k, zap.NewNop())
	result, err := svc.Run(context.Background(), question)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	printComparison(comparisonView{
		Question:  result.Question,
		Baseline:  result.Baseline,
		Augmented: result.Augmented,
		NodesUsed: len(result.Retrieved),
		Bullets:   result.ContextBullets,
	})
	return nil
}

// askServer posts the question to a running demo server and renders its
// response, exercising the same wire format the frontend consumes.
func askServer(base, question string, jsonOut bool) error {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return fmt.Errorf("marshal ask request: %w", err)
	}

	url := strings.TrimRight(base, "/") + "/demo/run"
	client := &http.Client{Timeout: 3 * time.Minute}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("call demo server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read demo server response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("demo server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if jsonOut {
		fmt.Println(string(bytes.TrimSpace(body)))
		return nil
	}

	var decoded struct {
		Question  string                  `json:"question"`
		Baseline  domain.GenerationResult `json:"baseline"`
		Augmented struct {
			domain.GenerationResult
			NodesUsed      int      `json:"nodes_used"`
			ContextBullets []string `json:"context_bullets"`
		} `json:"augmented"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("decode demo server response: %w", err)
	}

	printComparison(comparisonView{
		Question:  decoded.Question,
		Baseline:  decoded.Baseline,
		Augmented: decoded.Augmented.GenerationResult,
		NodesUsed: decoded.Augmented.NodesUsed,
		Bullets:   decoded.Augmented.ContextBullets,
	})
	return nil
}

type comparisonView struct {
	Question  string
	Baseline  domain.GenerationResult
	Augmented domain.GenerationResult
	NodesUsed int
	Bullets   []string
}

func printComparison(v comparisonView) {
	fmt.Printf("Question: %s\n\n", v.Question)
	fmt.Printf("Baseline (%.2fs, %d tokens out):\n%s\n\n",
		v.Baseline.TimeS, v.Baseline.OutputTokens, v.Baseline.Text)
	fmt.Printf("Augmented (%.2fs, %d tokens out, %d nodes):\n%s\n",
		v.Augmented.TimeS, v.Augmented.OutputTokens, v.NodesUsed, v.Augmented.Text)
	if len(v.Bullets) > 0 {
		fmt.Println("\nContext:")
		for _, b := range v.Bullets {
			fmt.Printf("  - %s\n", b)
		}
	}
}
