package processor

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/biread/internal/cli"
	"codeberg.org/snonux/biread/internal/document"
	"codeberg.org/snonux/biread/internal/gui"
	"codeberg.org/snonux/biread/internal/reader"
	"codeberg.org/snonux/biread/internal/scheduler"
	"codeberg.org/snonux/biread/internal/segment"
	"codeberg.org/snonux/biread/internal/translate"
)

// Processor runs the full pipeline for one document in CLI mode.
type Processor struct {
	flags *cli.Flags
}

// NewProcessor creates a processor for the given flags.
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{flags: flags}
}

// ProcessDocument reads, segments and translates the document at path, then
// writes the bilingual result to the configured output (stdout by default).
func (p *Processor) ProcessDocument(path string) error {
	raw, err := reader.Read(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	paragraphs := segment.Split(raw)
	if len(paragraphs) == 0 {
		fmt.Fprintf(os.Stderr, "No text found in %s\n", path)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Loaded %d paragraphs from %s\n", len(paragraphs), path)

	provider, err := translate.NewProvider(cli.ProviderConfig(p.flags))
	if err != nil {
		return err
	}

	store := document.New(paragraphs)
	if err := p.translateStore(store, provider); err != nil {
		return err
	}

	return p.writeResult(store)
}

// translateStore runs the scheduler against store and blocks until the run
// finishes, printing progress to stderr.
func (p *Processor) translateStore(store *document.Store, provider translate.Provider) error {
	sched := scheduler.New(provider, p.flags.Workers)
	sched.SetStore(store)

	finished := make(chan struct{})
	sched.SetCallbacks(func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rTranslating %d/%d", done, total)
	}, func() {
		close(finished)
	})

	sched.Run(p.flags.Target)
	<-finished
	fmt.Fprintln(os.Stderr)

	failed := 0
	for _, u := range store.Units() {
		if u.Status == document.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d of %d paragraphs fell back to the source text\n",
			failed, store.Len())
	}
	return nil
}

// writeResult renders the store as interleaved source/translation blocks.
func (p *Processor) writeResult(store *document.Store) error {
	var sb strings.Builder
	for i, u := range store.Units() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(u.Source)
		sb.WriteString("\n")
		sb.WriteString(u.Translation)
		sb.WriteString("\n")
	}

	if p.flags.OutputFile == "" {
		fmt.Print(sb.String())
		return nil
	}

	if err := os.WriteFile(p.flags.OutputFile, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Bilingual text written to %s\n", p.flags.OutputFile)
	return nil
}

// RunGUIMode launches the reader window.
func (p *Processor) RunGUIMode() error {
	gui.New(p.flags).Run()
	return nil
}
