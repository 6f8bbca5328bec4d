// main package for the storybook pagination tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/book-expert/logger"

	"github.com/book-expert/audiobook-service/internal/extract"
	"github.com/book-expert/audiobook-service/internal/storybook"
)

// Flag descriptions.
const (
	flagInputDesc = "Input document to paginate (.pdf, .txt, .md)"
	flagWidthDesc = "Line width for page text"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	var (
		input = flag.String("input", "", flagInputDesc)
		width = flag.Int("width", storybook.DefaultLineWidth, flagWidthDesc)
	)

	flag.Parse()

	if *input == "" {
		flag.Usage()

		return errors.New("input document is required")
	}

	appLog, err := logger.New(os.TempDir(), "storybook.log")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() { _ = appLog.Close() }()

	ctx := context.Background()

	extractor, err := extract.ForPath(*input, appLog)
	if err != nil {
		return err
	}

	story, err := extractor.Extract(ctx, *input)
	if err != nil {
		return err
	}

	pages := storybook.SplitPages(story)

	for _, page := range pages {
		fmt.Printf("--- Page %d ---\n", page.Number)
		fmt.Println(storybook.WrapLines(page.Text, *width))
		fmt.Println()
	}

	fmt.Printf("%d pages\n", len(pages))

	return nil
}
