package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/infuse/internal/models"
	"github.com/xhad/infuse/internal/types"
	"github.com/xhad/infuse/pkg/api"
	cfgPkg "github.com/xhad/infuse/pkg/config"
	"github.com/xhad/infuse/pkg/ledger"
	"github.com/xhad/infuse/pkg/transcript"
)

type Config struct {
	BaseURL   string
	Timeout   int
	RateLimit float64
	Username  string
	Password  string
}

func main() {
	config := parseFlags()

	if err := run(config); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Config {
	var config Config
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&config.BaseURL, "api-url", os.Getenv("INFUSE_API_URL"), "Infuse API base URL")
	flag.IntVar(&config.Timeout, "timeout", 30, "Request timeout in seconds")
	flag.Float64Var(&config.RateLimit, "rate-limit", 10, "Max requests per second")
	flag.StringVar(&config.Username, "username", "", "Username to sign in with")
	flag.StringVar(&config.Password, "password", "", "Password to sign in with")
	flag.Parse()

	// Load config file if specified
	if cfg, err := cfgPkg.LoadConfig(configPath); err == nil {
		if config.BaseURL == "" {
			config.BaseURL = cfg.API.BaseURL
		}
		config.Timeout = cfg.API.Timeout
		config.RateLimit = cfg.API.RateLimit
	}

	return config
}

func getBytesBar(size int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(config Config) error {
	client, err := api.NewWithConfig(api.ClientConfig{
		BaseURL:   config.BaseURL,
		Timeout:   time.Duration(config.Timeout) * time.Second,
		RateLimit: config.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize API client: %v", err)
	}

	ctx := context.Background()

	var user *models.User
	if config.Username != "" {
		user, err = client.Login(ctx, config.Username, config.Password)
		if err != nil {
			return fmt.Errorf("login failed: %v", err)
		}
	} else {
		user, err = client.CurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("no active session, sign in with -username and -password: %v", err)
		}
	}
	color.Green("Signed in as %s\n", user.Username)

	files := ledger.New(client)
	chat := transcript.New(client)

	if err := files.Refresh(ctx); err != nil {
		color.Red("Failed to load file list: %v\n", err)
	}
	printFiles(files.Snapshot())
	selected := firstReady(files.Snapshot())

	color.Cyan("\nAsk questions about your documents (type 'help' for commands, 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)

		switch strings.ToLower(args[0]) {
		case "exit", "quit":
			return nil

		case "help":
			printHelp()

		case "files":
			if err := files.Refresh(ctx); err != nil {
				color.Red("Failed to refresh file list: %v\n", err)
				continue
			}
			printFiles(files.Snapshot())

		case "use":
			if len(args) < 2 {
				color.Red("Usage: use <fileId>\n")
				continue
			}
			selected = args[1]
			color.Blue("Asking against file %s\n", selected)

		case "upload":
			if len(args) < 2 {
				color.Red("Usage: upload <path> [path...]\n")
				continue
			}
			uploadPaths(ctx, files, args[1:])
			printFiles(files.Snapshot())
			if selected == "" {
				selected = firstReady(files.Snapshot())
			}

		case "rm":
			if len(args) < 2 {
				color.Red("Usage: rm <fileId>\n")
				continue
			}
			if err := files.Delete(ctx, args[1]); err != nil {
				color.Red("Failed to delete file: %v\n", err)
				continue
			}
			color.Green("✓ Deleted %s\n", args[1])

		case "chat":
			msgs, err := chat.Messages(ctx)
			if err != nil {
				color.Red("Failed to load transcript: %v\n", err)
				continue
			}
			printTranscript(msgs)

		case "history":
			records, err := chat.Records(ctx)
			if err != nil {
				color.Red("Failed to load history: %v\n", err)
				continue
			}
			printHistory(records)

		case "forget":
			if len(args) < 2 {
				color.Red("Usage: forget <messageId>\n")
				continue
			}
			if err := chat.DeleteMessage(ctx, args[1]); err != nil {
				color.Red("Failed to delete message: %v\n", err)
				continue
			}
			color.Green("✓ Deleted %s\n", args[1])

		case "clear":
			if err := chat.DeleteAll(ctx); err != nil {
				color.Red("Failed to clear history: %v\n", err)
				continue
			}
			color.Green("✓ Chat history cleared\n")

		default:
			if selected == "" {
				color.Red("No file selected; upload one or pick with 'use <fileId>'\n")
				continue
			}

			responseSpinner := getSpinner(" Thinking...")
			ans, err := chat.Ask(ctx, line, selected)
			responseSpinner.Finish()
			fmt.Print("\r")

			if err != nil {
				color.Red("Error: %v\n", err)
				continue
			}

			assistantPrompt("\nAssistant: %s\n", ans.Answer)
			if len(ans.Sources) > 0 {
				color.Yellow("Sources: %s\n", strings.Join(ans.Sources, ", "))
			}
		}
	}

	return nil
}

func uploadPaths(ctx context.Context, files *ledger.Ledger, paths []string) {
	locals := make([]types.LocalFile, 0, len(paths))
	var handles []*os.File

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			color.Red("Cannot open %s: %v\n", path, err)
			continue
		}
		info, err := f.Stat()
		if err != nil {
			color.Red("Cannot stat %s: %v\n", path, err)
			f.Close()
			continue
		}

		bar := getBytesBar(info.Size(), " Uploading "+filepath.Base(path))
		reader := progressbar.NewReader(f, bar)
		handles = append(handles, f)
		locals = append(locals, types.LocalFile{
			Name:      filepath.Base(path),
			SizeBytes: info.Size(),
			Content:   &reader,
		})
	}

	// Uploads run sequentially; a failed file shows up as an error
	// record in the listing rather than aborting the batch.
	files.Upload(ctx, locals...)

	for _, f := range handles {
		f.Close()
	}
}

func firstReady(records []models.UploadRecord) string {
	for _, rec := range records {
		if rec.Status == models.StatusReady {
			return rec.ID
		}
	}
	return ""
}

func printFiles(records []models.UploadRecord) {
	if len(records) == 0 {
		color.Yellow("\nNo documents uploaded yet\n")
		return
	}

	fmt.Println()
	for _, rec := range records {
		badge := color.GreenString("ready")
		switch rec.Status {
		case models.StatusProcessing:
			badge = color.YellowString("processing")
		case models.StatusError:
			badge = color.RedString("error")
		}
		fmt.Printf("  %-12s %-40s %8s  %s\n", rec.ID, rec.Name, formatSize(rec.SizeBytes), badge)
	}
}

func printTranscript(msgs []models.ChatMessage) {
	if len(msgs) == 0 {
		color.Yellow("\nStart a conversation by asking a question\n")
		return
	}

	for _, group := range transcript.GroupPairs(msgs) {
		fmt.Println()
		for _, msg := range group {
			if msg.Role == models.RoleUser {
				color.Green("You: %s\n", msg.Content)
			} else {
				color.Cyan("Assistant: %s\n", msg.Content)
				if len(msg.Sources) > 0 {
					color.Yellow("Sources: %s\n", strings.Join(msg.Sources, ", "))
				}
			}
		}
	}
}

func printHistory(records []models.QARecord) {
	if len(records) == 0 {
		color.Yellow("\nNo chat history yet\n")
		return
	}

	for _, group := range transcript.GroupByDate(records) {
		color.Blue("\n%s\n", group.Date)
		for _, rec := range group.Records {
			fmt.Printf("  [%s] %s\n", rec.MessageID, rec.Question)
			fmt.Printf("        %s\n", rec.Answer)
		}
	}
}

func printHelp() {
	fmt.Println(`
  files              refresh and list your documents
  upload <path>...   upload PDF files
  rm <fileId>        delete a document
  use <fileId>       pick the document to ask against
  chat               show the full conversation
  history            show Q&A history grouped by day
  forget <messageId> delete one history record
  clear              delete all history
  exit               quit`)
}

func formatSize(bytes int64) string {
	const k = 1024
	switch {
	case bytes >= k*k*k:
		return fmt.Sprintf("%.1fGB", float64(bytes)/(k*k*k))
	case bytes >= k*k:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(k*k))
	case bytes >= k:
		return fmt.Sprintf("%.1fKB", float64(bytes)/k)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
