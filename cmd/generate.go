package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/generate"
	"github.com/dhabedank/activity-parser/internal/output"
	"github.com/dhabedank/activity-parser/internal/reading"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var (
	genTitle      string
	genSlug       string
	genReading    string
	genPDF        string
	genYouTube    string
	genTypes      []string
	genThumbnail  string
	genNoSave     bool
	genDryRun     bool
	genFormat     string
	genPolicy     string
	genNoProgress bool
)

// GenerateCmd drafts activities from a reading.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate activities from a reading with an LLM",
	Long: `Generate one activity per question type from a reading.

The reading comes from a text file (--reading), a PDF (--pdf), or a video
transcript file together with its YouTube URL (--reading with --youtube).
Each activity is saved as <slug>-q<N>-<type>.md in the activities directory.

Example:
  activity-parser generate --pdf Drought_Reading.pdf
  activity-parser generate --reading notes.txt --title "Ocean Currents" --type analysis
  activity-parser generate --reading transcript.txt --youtube https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVarP(&genTitle, "title", "t", "", "Activity title (default: from the file name)")
	GenerateCmd.Flags().StringVar(&genSlug, "slug", "", "Base slug (default: from the title)")
	GenerateCmd.Flags().StringVarP(&genReading, "reading", "r", "", "Reading or transcript text file")
	GenerateCmd.Flags().StringVar(&genPDF, "pdf", "", "Reading PDF")
	GenerateCmd.Flags().StringVar(&genYouTube, "youtube", "", "YouTube URL the transcript belongs to")
	GenerateCmd.Flags().StringSliceVar(&genTypes, "type", nil, "Question types (comprehension/comparison/analysis; default: all)")
	GenerateCmd.Flags().StringVar(&genThumbnail, "thumbnail", "", "Thumbnail path (default: placeholder, or the video thumbnail)")
	GenerateCmd.Flags().BoolVar(&genNoSave, "no-save", false, "Print the activities instead of saving them")
	GenerateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Show the cost estimate without calling the model")
	GenerateCmd.Flags().StringVarP(&genFormat, "output", "o", "summary", "Output format for generated activities (json/markdown/summary)")
	GenerateCmd.Flags().StringVar(&genPolicy, "on-collision", "", "Slug collision policy (suffix/overwrite/error)")
	GenerateCmd.Flags().BoolVar(&genNoProgress, "no-progress", false, "Plain progress lines instead of the live display")
}

// readingSource is the loaded reading plus what the generator pins into each document.
type readingSource struct {
	text       string
	title      string
	slug       string
	contentRef string
	thumbnail  string
}

func loadReadingSource() (*readingSource, error) {
	switch {
	case genPDF != "" && genReading != "":
		return nil, fmt.Errorf("use either --pdf or --reading, not both")
	case genPDF == "" && genReading == "":
		return nil, fmt.Errorf("a reading is required: pass --pdf or --reading")
	case genYouTube != "" && genPDF != "":
		return nil, fmt.Errorf("--youtube needs a transcript passed with --reading")
	}

	src := &readingSource{title: genTitle, thumbnail: genThumbnail}
	path := genReading
	if genPDF != "" {
		path = genPDF
		text, err := reading.ExtractPDFText(genPDF)
		if err != nil {
			return nil, err
		}
		src.text = text
	} else {
		data, err := os.ReadFile(genReading)
		if err != nil {
			return nil, fmt.Errorf("failed to read reading: %w", err)
		}
		src.text = string(data)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if src.title == "" {
		src.title = reading.TitleFromFilename(name)
	}
	src.slug = genSlug
	if src.slug == "" {
		src.slug = reading.Slugify(src.title)
	}

	if genPDF != "" {
		src.contentRef = "/assets/" + reading.Slugify(name) + ".pdf"
	}
	if genYouTube != "" {
		id, err := reading.VideoID(genYouTube)
		if err != nil {
			return nil, err
		}
		src.contentRef = reading.EmbedURL(id)
		if src.thumbnail == "" {
			src.thumbnail = reading.ThumbnailURL(id)
		}
		if genSlug == "" {
			src.slug = reading.Slugify("youtube-" + id)
		}
	}

	if err := reading.ValidateText(src.text); err != nil {
		return nil, err
	}
	return src, nil
}

func parseTypes(names []string) ([]generate.QuestionType, error) {
	if len(names) == 0 {
		return generate.QuestionTypes, nil
	}
	types := make([]generate.QuestionType, 0, len(names))
	for _, name := range names {
		qt, err := generate.ParseQuestionType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, qt)
	}
	return types, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	if genPolicy != "" {
		cfg.CollisionPolicy = genPolicy
	}
	policy, err := collisionPolicy()
	if err != nil {
		return err
	}
	types, err := parseTypes(genTypes)
	if err != nil {
		return err
	}
	src, err := loadReadingSource()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	s := openStore()
	req := generate.SetRequest{
		BaseSlug:   src.slug,
		Reading:    src.text,
		Title:      src.title,
		ContentRef: src.contentRef,
		Thumbnail:  src.thumbnail,
		Types:      types,
		Persist:    !genNoSave,
	}

	template := generate.New(generate.Options{Store: s}).Template()
	promptChars := len(generate.BuildPrompt(generate.Request{Reading: src.text, Title: src.title, Template: template}))
	estimate := tui.EstimateSet(modelName(), promptChars, len(template), len(types))

	if genDryRun {
		fmt.Fprintf(out, "%s %s\n", tui.TitleStyle.Render(src.title), tui.HelpStyle.Render("("+src.slug+")"))
		for i, qt := range types {
			fmt.Fprintf(out, "  would generate %s\n", generate.SetSlug(src.slug, i+1, qt))
		}
		fmt.Fprintf(out, "  %s with %s\n", estimate, tui.ModelStyle.Render(modelName()))
		return nil
	}

	adapter, err := newAdapter()
	if err != nil {
		return err
	}
	log := cliLogger(cmd)
	defer log.Sync()

	opts := generate.Options{
		Adapter:     adapter,
		Store:       s,
		Policy:      policy,
		Logger:      log,
		Concurrency: cfg.Concurrency,
	}

	ctx := cmd.Context()

	var result *generate.SetResult
	if !genNoProgress && isTerminal(os.Stdout) {
		result, err = generateWithProgress(ctx, opts, req, src.title, adapter.Name(), estimate)
	} else {
		fmt.Fprintf(out, "Generating %d activities with %s...\n", len(types), tui.ModelStyle.Render(adapter.Name()))
		start := time.Now()
		opts.OnItem = func(item generate.Item) {
			fmt.Fprintln(out, tui.RenderItem(item, time.Since(start)))
		}
		result, err = generate.New(opts).GenerateSet(ctx, req)
		if result != nil {
			fmt.Fprint(out, tui.RenderSummary(itemStates(result), estimate))
		}
	}
	if err != nil {
		return err
	}

	return writeGenerated(cmd, result.Activities())
}

func generateWithProgress(ctx context.Context, opts generate.Options, req generate.SetRequest, title, model string, estimate tui.Estimate) (*generate.SetResult, error) {
	progress := tui.NewGenerationProgress(title, model, req.Types, estimate)
	p := tea.NewProgram(progress)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *generate.SetResult
	var genErr error
	opts.OnItem = func(item generate.Item) { p.Send(tui.ItemDoneMsg{Item: item}) }
	go func() {
		result, genErr = generate.New(opts).GenerateSet(ctx, req)
		p.Send(tui.SetDoneMsg{Err: genErr})
	}()

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}
	if progress.Cancelled() {
		return nil, fmt.Errorf("generation cancelled")
	}
	return result, genErr
}

func itemStates(result *generate.SetResult) []tui.ItemState {
	states := make([]tui.ItemState, len(result.Items))
	for i, item := range result.Items {
		states[i] = tui.ItemState{Type: item.Type, Slug: item.Slug, Done: true, Err: item.Err}
	}
	return states
}

// writeGenerated prints what was produced. Unsaved activities default to markdown so nothing is lost.
func writeGenerated(cmd *cobra.Command, activities []activity.Activity) error {
	format := genFormat
	if genNoSave && !cmd.Flags().Changed("output") {
		format = "markdown"
	}
	adapter, err := output.New(format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	_, err = adapter.Write(activities, output.Config{Out: cmd.OutOrStdout()})
	return err
}
