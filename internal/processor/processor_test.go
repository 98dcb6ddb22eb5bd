package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/biread/internal/cli"
	"codeberg.org/snonux/biread/internal/document"
	"codeberg.org/snonux/biread/internal/segment"
	"codeberg.org/snonux/biread/internal/testutil"
)

func TestTranslateStoreAndWriteResult(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.Translations["Hello."] = "Hallo."
	provider.Translations["Bye."] = "Tschüss."

	flags := cli.NewFlags()
	flags.Target = "de"
	flags.OutputFile = filepath.Join(t.TempDir(), "out.txt")
	p := NewProcessor(flags)

	store := document.New(segment.Split("Hello.\n\nBye."))
	if err := p.translateStore(store, provider); err != nil {
		t.Fatalf("translateStore failed: %v", err)
	}
	if err := p.writeResult(store); err != nil {
		t.Fatalf("writeResult failed: %v", err)
	}

	data, err := os.ReadFile(flags.OutputFile)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	out := string(data)
	for _, want := range []string{"Hello.", "Hallo.", "Bye.", "Tschüss."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Source line must precede its translation.
	if strings.Index(out, "Hello.") > strings.Index(out, "Hallo.") {
		t.Error("translation precedes source in output")
	}
}

func TestProcessDocument_EmptyDocument(t *testing.T) {
	flags := cli.NewFlags()
	p := NewProcessor(flags)

	path := testutil.WriteTestDocument(t, "empty.txt", "   \n\n  \n")
	if err := p.ProcessDocument(path); err != nil {
		t.Errorf("empty document must not be an error, got %v", err)
	}
}

func TestProcessDocument_MissingFile(t *testing.T) {
	flags := cli.NewFlags()
	p := NewProcessor(flags)

	if err := p.ProcessDocument(filepath.Join(t.TempDir(), "gone.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
