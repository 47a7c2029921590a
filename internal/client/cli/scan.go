package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	clientapi "github.com/aislescan/aislescan/internal/client/api"
	"github.com/aislescan/aislescan/internal/client/vision"
	"github.com/aislescan/aislescan/internal/core/domain"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Analyze a food label photo",
	Long: `Analyze a food label photo with AI, matched against your dietary
profile. Pass --save to keep the result in your scan history.

Examples:
  aislescan scan label.jpg
  aislescan scan pantry/cereal.png --save`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved scans",
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	scanCmd.Flags().Bool("save", false, "save the analysis to your scan history")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	analyzer, err := vision.New(cmd.Context(), appl.Config.GeminiAPIKey)
	if err != nil {
		return err
	}

	// Analysis works without a profile; a load failure only loses the
	// personalized context.
	if err := appl.Profiles.Reload(cmd.Context()); err != nil {
		appl.Log.Warn().Err(err).Msg("analyzing without profile context")
	}

	imagePath := args[0]
	fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing label...")
	analysis, err := analyzer.Analyze(cmd.Context(), imagePath, appl.Profiles.Get())
	if err != nil {
		return err
	}

	if jsonOut {
		if err := printJSON(analysis); err != nil {
			return err
		}
	} else {
		printAnalysis(analysis)
	}

	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}

	scan, err := appl.Client.SaveScan(cmd.Context(), clientapi.SaveScanInput{
		ProductName: analysis.ProductName,
		ImageURI:    imagePath,
		Analysis:    analysis,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Saved as scan %d\n", scan.ID)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	scans, err := appl.Client.ListScans(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{"scans": scans, "count": len(scans)})
	}
	if len(scans) == 0 {
		fmt.Println("No saved scans")
		return nil
	}

	w := newTable()
	printTableHeader(w, "ID", "PRODUCT", "HEALTH", "SCANNED")
	for _, s := range scans {
		health := "-"
		var a domain.Analysis
		if err := json.Unmarshal(s.Analysis, &a); err == nil {
			health = fmt.Sprintf("%d/10", a.Scores.Health)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			s.ID,
			truncate(s.ProductName, 40),
			health,
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	appl, err := getApp(cmd.Context())
	if err != nil {
		return err
	}

	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
		return fmt.Errorf("invalid scan id %q", args[0])
	}

	scan, err := appl.Client.GetScan(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(scan)
	}

	fmt.Printf("Scan %d, %s\n", scan.ID, scan.CreatedAt.Local().Format("2006-01-02 15:04"))
	var analysis domain.Analysis
	if err := json.Unmarshal(scan.Analysis, &analysis); err != nil {
		return fmt.Errorf("decoding stored analysis: %w", err)
	}
	printAnalysis(&analysis)
	return nil
}

func printAnalysis(a *domain.Analysis) {
	fmt.Printf("\n%s\n", a.ProductName)
	fmt.Printf("%s\n\n", a.Summary)
	fmt.Printf("Scores: health %d/10, fulfilling %d/10, taste %d/10\n", a.Scores.Health, a.Scores.Fulfilling, a.Scores.Taste)
	if len(a.Pros) > 0 {
		fmt.Println("\nPros:")
		for _, p := range a.Pros {
			fmt.Printf("  + %s\n", p)
		}
	}
	if len(a.Cons) > 0 {
		fmt.Println("\nCons:")
		for _, c := range a.Cons {
			fmt.Printf("  - %s\n", c)
		}
	}
}
