package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"go.uber.org/zap"

	"github.com/agrodocs/docforge/internal/browser"
	"github.com/agrodocs/docforge/pkg/document"
	"github.com/agrodocs/docforge/pkg/model"
	"github.com/agrodocs/docforge/pkg/orchestrator"
	"github.com/agrodocs/docforge/pkg/registry"
	"github.com/agrodocs/docforge/pkg/render"
)

// setFlags collects repeated -set key=value assignments.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*s = append(*s, value)
	return nil
}

func main() {
	variant := flag.String("variant", "", "variant to edit (e.g. coffee-contract)")
	listVariants := flag.Bool("list-variants", false, "list available variants and exit")
	listTemplates := flag.Bool("list-templates", false, "list saved templates and exit")
	templatesDir := flag.String("templates-dir", "", "directory for saved templates (in-memory if empty)")
	load := flag.String("load", "", "load a saved template by id")
	edit := flag.Bool("edit", false, "prompt for each field interactively")
	var sets setFlags
	flag.Var(&sets, "set", "set a field as key=value (repeatable)")
	output := flag.String("output", "", "write rendered HTML to this file (stdout if empty)")
	exportPath := flag.String("export", "", "export a paginated PDF to this file")
	printPath := flag.String("print", "", "write a native print PDF to this file")
	save := flag.String("save", "", "save the document as a template with this title")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("init logger: %v", err)
		}
		logger = dev
	}
	defer logger.Sync()

	options := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if *templatesDir != "" {
		options = append(options, orchestrator.WithTemplateStore(registry.NewFileStore(*templatesDir)))
	}
	if *exportPath != "" || *printPath != "" {
		chrome := browser.New(browser.DefaultConfig())
		defer chrome.Close()
		options = append(options,
			orchestrator.WithCapturer(chrome),
			orchestrator.WithPrinter(chrome),
		)
	}

	session := orchestrator.New(options...)
	ctx := context.Background()

	if *listVariants {
		for _, id := range session.Variants() {
			fmt.Println(id)
		}
		return
	}
	if *listTemplates {
		records, err := session.Templates()
		if err != nil {
			log.Fatalf("list templates: %v", err)
		}
		for _, record := range records {
			fmt.Printf("%s\t%s\t%s\t%s\n", record.ID, record.VariantID, record.CreatedAt.Format("2006-01-02 15:04"), record.Title)
		}
		return
	}

	switch {
	case *load != "":
		if err := session.LoadTemplate(*load); err != nil {
			log.Fatalf("load template: %v", err)
		}
	case *variant != "":
		if err := session.SelectVariant(*variant); err != nil {
			log.Fatalf("select variant: %v", err)
		}
	default:
		log.Fatal("either -variant or -load is required (see -list-variants)")
	}

	for _, assignment := range sets {
		key, value, _ := strings.Cut(assignment, "=")
		if err := session.SetField(key, value); err != nil {
			log.Fatalf("set field: %v", err)
		}
	}

	if *edit {
		if err := promptFields(session); err != nil {
			log.Fatalf("edit: %v", err)
		}
	}

	needsPrepared := *exportPath != "" || *printPath != "" || *save != ""
	if needsPrepared {
		if err := session.Prepare(); err != nil {
			if verr, ok := document.AsValidationError(err); ok {
				log.Fatalf("document is incomplete, missing: %s", strings.Join(verr.Fields, ", "))
			}
			log.Fatalf("prepare: %v", err)
		}
	}

	if *save != "" {
		record, err := session.SaveTemplate(*save)
		if err != nil {
			log.Fatalf("save template: %v", err)
		}
		fmt.Printf("Saved template %s\n", record.ID)
	}

	if *exportPath != "" {
		target := *exportPath
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			target = filepath.Join(target, session.ExportFilename())
		}
		file, err := os.Create(target)
		if err != nil {
			log.Fatalf("create export file: %v", err)
		}
		if err := session.ExportPDF(ctx, file); err != nil {
			file.Close()
			log.Fatalf("export: %v", err)
		}
		if err := file.Close(); err != nil {
			log.Fatalf("close export file: %v", err)
		}
		fmt.Printf("Exported %s\n", target)
	}

	if *printPath != "" {
		pdf, err := session.Print(ctx)
		if err != nil {
			log.Fatalf("print: %v", err)
		}
		if err := os.WriteFile(*printPath, pdf, 0o644); err != nil {
			log.Fatalf("write print file: %v", err)
		}
		fmt.Printf("Printed %s\n", *printPath)
	}

	if *exportPath == "" && *printPath == "" {
		html, err := session.RenderHTML(ctx, render.Options{})
		if err != nil {
			log.Fatalf("render: %v", err)
		}
		if *output != "" {
			if err := os.WriteFile(*output, html, 0o644); err != nil {
				log.Fatalf("write output: %v", err)
			}
			fmt.Printf("Document written to %s\n", *output)
		} else {
			fmt.Println(string(html))
		}
	}
}

// promptFields walks the variant's editable fields and asks for each one,
// with the current effective value offered as the default.
func promptFields(session *orchestrator.Session) error {
	instance := session.Instance()
	for _, field := range instance.Model().Fields {
		if field.Kind == model.KindComputed {
			continue
		}

		label := field.Label
		if label == "" {
			label = field.Key
		}
		if field.Required {
			label += " (required)"
		}
		current := instance.EffectiveValue(field.Key)

		var answer string
		var prompt survey.Prompt
		switch field.Kind {
		case model.KindChoice:
			prompt = &survey.Select{Message: label, Options: field.Options, Default: defaultOption(field.Options, current)}
		case model.KindLongText:
			prompt = &survey.Multiline{Message: label, Default: current}
		default:
			prompt = &survey.Input{Message: label, Default: current}
		}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return err
		}
		if answer == current {
			continue
		}
		if err := session.SetField(field.Key, answer); err != nil {
			return err
		}
	}
	return nil
}

func defaultOption(options []string, current string) any {
	for _, option := range options {
		if option == current {
			return option
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return nil
}
