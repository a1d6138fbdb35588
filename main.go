package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"aply/db"
	"aply/llm"
	"aply/utils"
)

var (
	version = "0.1.0"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Aply v%s\n", version)
		os.Exit(0)
	}

	logger, err := utils.NewLogger(utils.GetLogPath())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Load or create default configuration
	actualConfigPath := *configPath
	if actualConfigPath == "" {
		actualConfigPath, err = utils.EnsureDefaultConfig()
		if err != nil {
			logger.Error("Failed to prepare default config: %v", err)
			os.Exit(1)
		}
	}

	config, err := utils.LoadConfig(actualConfigPath)
	if err != nil {
		logger.Error("Failed to load config %s: %v", actualConfigPath, err)
		os.Exit(1)
	}

	ledger, err := db.New(config.Data.DBPath)
	if err != nil {
		logger.Error("Failed to open ledger at %s: %v", config.Data.DBPath, err)
		os.Exit(1)
	}
	defer ledger.Close()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "stats":
		err = runStats(ledger)
	case "timeline":
		if len(args) < 2 {
			err = fmt.Errorf("usage: aply timeline <application-id>")
		} else {
			err = runTimeline(ledger, args[1])
		}
	case "search":
		if len(args) < 2 {
			err = fmt.Errorf("usage: aply search <query>")
		} else {
			err = runSearch(ledger, args[1])
		}
	case "analyze":
		err = runAnalyze(ledger, config, logger, args[1:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", args[0], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: aply [-config path] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  stats                     Show application, cost, and quality statistics")
	fmt.Println("  timeline <application-id> Show the event timeline for an application")
	fmt.Println("  search <query>            Full-text search over stored applications")
	fmt.Println("  analyze [flags]           Analyze a JD and create an application record")
}

func runStats(ledger *db.DB) error {
	stats, err := ledger.GetApplicationStats(30)
	if err != nil {
		return err
	}
	fmt.Printf("Applications (30d): %d total, %d companies, %d countries, avg credibility %.1f\n",
		stats.TotalApplications, stats.UniqueCompanies, stats.UniqueCountries, stats.AvgCredibility)
	fmt.Printf("  sent: %d  responded: %d\n", stats.SentCount, stats.ResponseCount)

	costs, err := ledger.GetLLMCostSummary(30)
	if err != nil {
		return err
	}
	for taskType, c := range costs {
		fmt.Printf("LLM %s: %d calls, $%.4f total, %.0fms avg\n",
			taskType, c.CallCount, c.TotalCost, c.AvgResponseTimeMs)
	}

	trends, err := ledger.GetQualityTrends(30)
	if err != nil {
		return err
	}
	fmt.Printf("Quality (30d): %.2f avg overall across %d content pieces\n",
		trends.AvgOverallQuality, trends.TotalContentPieces)

	size, err := ledger.GetDatabaseSize()
	if err != nil {
		return err
	}
	fmt.Printf("Database: %.2f MB\n", size.SizeMB)
	for table, count := range size.TableCounts {
		fmt.Printf("  %s: %d rows\n", table, count)
	}
	return nil
}

func runTimeline(ledger *db.DB, idArg string) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid application id %q", idArg)
	}

	events, err := ledger.GetApplicationTimeline(id)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("No events for application %d\n", id)
		return nil
	}
	for _, event := range events {
		fmt.Printf("%s  %s\n", event.Timestamp.Format("2006-01-02 15:04:05"), event.EventType)
	}
	return nil
}

func runSearch(ledger *db.DB, query string) error {
	results, err := ledger.SearchApplications(query, 20)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("#%d %s — %s (%s)\n    %s\n",
			r.Application.ID, r.Application.Company, r.Application.RoleTitle,
			r.Application.Country, r.Snippet)
	}
	if len(results) == 0 {
		fmt.Println("No matches")
	}
	return nil
}

func runAnalyze(ledger *db.DB, config *utils.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	company := fs.String("company", "", "Company name")
	role := fs.String("role", "", "Role title")
	country := fs.String("country", "", "Country")
	jdFile := fs.String("jd", "", "Path to job description text file")
	credibility := fs.Int("credibility", 5, "Credibility score (0-10)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jdFile == "" {
		return fmt.Errorf("usage: aply analyze -company X -role Y -country Z -jd file.txt")
	}

	jdText, err := os.ReadFile(*jdFile)
	if err != nil {
		return fmt.Errorf("failed to read JD file: %w", err)
	}

	if !config.LLM.Enabled || config.LLM.APIKey == "" {
		return fmt.Errorf("LLM is not configured; set OPENAI_API_KEY or enable it in %s", utils.GetConfigPath())
	}

	client, err := llm.NewClient(llm.Config{
		APIKey:      config.LLM.APIKey,
		BaseURL:     config.LLM.BaseURL,
		Model:       config.LLM.Model,
		MaxTokens:   config.LLM.MaxTokens,
		Temperature: config.LLM.Temperature,
	})
	if err != nil {
		return err
	}

	logger.Info("Analyzing JD for %s / %s", *company, *role)
	analysis, usage, analyzeErr := client.AnalyzeJobDescription(context.Background(), string(jdText))
	if analyzeErr != nil {
		return analyzeErr
	}

	appID, err := ledger.CreateApplication(*company, *role, *country, string(jdText),
		db.Document(analysis), *credibility, nil, nil)
	if err != nil {
		return err
	}

	if _, err := ledger.TrackLLMUsage(db.LLMUsage{
		ApplicationID:  appID,
		TaskType:       usage.TaskType,
		ModelUsed:      usage.Model,
		TokensInput:    usage.TokensInput,
		TokensOutput:   usage.TokensOutput,
		CostUSD:        usage.CostUSD,
		ResponseTimeMs: usage.ResponseTimeMs,
		Success:        usage.Success,
		ErrorMessage:   usage.ErrorMessage,
	}); err != nil {
		return err
	}

	logger.Info("Created application %d ($%.4f, %d tokens)", appID,
		usage.CostUSD, usage.TokensInput+usage.TokensOutput)
	return nil
}
