package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/k0kubun/pp"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yuzurisub/subtrans/internal/config"
	"github.com/yuzurisub/subtrans/internal/subterr"
	"github.com/yuzurisub/subtrans/pkg/encoding"
	"github.com/yuzurisub/subtrans/pkg/subs"
	"github.com/yuzurisub/subtrans/pkg/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate <subtitle-file>",
	Short: "Translate a subtitle file's dialog lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslate,
}

func registerTranslateFlags(s config.Settings) {
	f := translateCmd.Flags()
	f.String("provider", s.Provider, "LLM provider: openai, openrouter, gemini, ollama, lmstudio")
	f.String("endpoint", s.Endpoint, "provider endpoint URL")
	f.String("model", s.Model, "model identifier")
	f.String("api-key", s.APIKey, "provider API key (or SUBTRANS_API_KEY)")
	f.String("style", s.StyleTag, "translation register: natural, literal, localized, formal, casual, honorifics")
	f.String("source-lang", s.SourceLang, "source language tag")
	f.String("target-lang", s.TargetLang, "target language tag")
	f.Int("batch-size", s.BatchSize, "lines per batch")
	f.Int("concurrency", s.Concurrency, "concurrent batches per wave, clamped to [1,10]")
	f.Int("delay-ms", s.DelayMs, "delay between waves in milliseconds")
	f.StringP("output", "o", "", "output path (default: <input>.<target-lang><ext>)")
	f.Bool("bom", true, "write output with a UTF-8 BOM (standalone file convention)")
	f.Bool("muxer-temp", false, "write output without a BOM, for muxer-bound temporaries (overrides --bom)")
	f.Bool("debug", false, "dump the parsed document structure before translating")
}

type barSink struct {
	bar *progressbar.ProgressBar
}

func (s *barSink) Progress(ev translate.ProgressEvent) {
	if s.bar == nil {
		return
	}
	s.bar.Describe(fmt.Sprintf("batch %d/%d", ev.CurrentBatch, ev.TotalBatches))
	s.bar.Set(ev.LinesTranslated)
}

func (s *barSink) Error(message string) {
	color.Redln("translate error: " + message)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	f := cmd.Flags()

	provider, _ := f.GetString("provider")
	endpoint, _ := f.GetString("endpoint")
	model, _ := f.GetString("model")
	apiKey, _ := f.GetString("api-key")
	style, _ := f.GetString("style")
	sourceLang, _ := f.GetString("source-lang")
	targetLang, _ := f.GetString("target-lang")
	batchSize, _ := f.GetInt("batch-size")
	concurrency, _ := f.GetInt("concurrency")
	delayMs, _ := f.GetInt("delay-ms")
	outputPath, _ := f.GetString("output")
	bom, _ := f.GetBool("bom")
	muxerTemp, _ := f.GetBool("muxer-temp")
	debug, _ := f.GetBool("debug")
	if muxerTemp {
		bom = false
	}

	format, err := subs.ParseFormat(filepath.Ext(inputPath))
	if err != nil {
		return subterr.New(subterr.StageParse, err)
	}

	payload, err := encoding.ReadFile(inputPath)
	if err != nil {
		return subterr.New(subterr.StageIO, err)
	}

	doc, err := subs.Parse(payload, format, inputPath)
	if err != nil {
		return subterr.New(subterr.StageParse, err)
	}

	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		base := strings.TrimSuffix(inputPath, ext)
		outputPath = fmt.Sprintf("%s.%s%s", base, targetLang, ext)
	}

	if debug {
		pp.Println(doc)
	}

	color.Cyanf("Translating %d lines (%s → %s) via %s\n", doc.LineCount(), sourceLang, targetLang, provider)

	bar := progressbar.NewOptions(doc.LineCount(),
		progressbar.OptionSetDescription("translating"),
		progressbar.OptionShowCount(),
	)

	translated, err := translate.Translate(context.Background(), translate.Request{
		Doc: doc,
		Config: translate.ProviderConfig{
			Provider: translate.ProviderTag(provider),
			Endpoint: endpoint,
			Model:    model,
			APIKey:   apiKey,
			StyleTag: style,
		},
		SourceLang:  sourceLang,
		TargetLang:  targetLang,
		BatchSize:   batchSize,
		Concurrency: concurrency,
		DelayMs:     delayMs,
		Sink:        &barSink{bar: bar},
	})
	if err != nil {
		return err
	}

	output, err := subs.Reconstruct(doc, translated)
	if err != nil {
		return subterr.New(subterr.StageReconstruct, err)
	}

	if err := encoding.WriteFile(outputPath, output, bom); err != nil {
		return subterr.New(subterr.StageIO, err)
	}

	abs, _ := filepath.Abs(outputPath)
	color.Greenf("\nWrote %s\n", abs)
	printSummaryTable(inputPath, abs, provider, model, doc.LineCount(), translated.LineCount(), batchSize)
	return nil
}

func printSummaryTable(inputPath, outputPath, provider, model string, linesIn, linesOut, batchSize int) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"Input", inputPath})
	table.Append([]string{"Output", outputPath})
	table.Append([]string{"Provider", provider})
	table.Append([]string{"Model", model})
	table.Append([]string{"Lines parsed", fmt.Sprint(linesIn)})
	table.Append([]string{"Lines reconstructed", fmt.Sprint(linesOut)})
	table.Append([]string{"Batch size", fmt.Sprint(batchSize)})
	table.Render()
}
