package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hesusruiz/adoc/adoc"
	"github.com/hesusruiz/adoc/textedit"
	"github.com/hesusruiz/vcutils/yaml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var debug bool

// readConfiguration loads the YAML configuration for a run. An explicit
// name wins; otherwise an "adoc.yaml" file next to the input file is used
// when present.
func readConfiguration(configName, inputFileName string, sugar *zap.SugaredLogger) *yaml.YAML {

	if configName == "" {
		candidate := filepath.Join(filepath.Dir(inputFileName), "adoc.yaml")
		if _, err := os.Stat(candidate); err != nil {
			// No configuration, the defaults apply
			return nil
		}
		configName = candidate
	}

	config, err := yaml.ParseYamlFile(configName)
	if err != nil {
		sugar.Fatalw("reading configuration", "name", configName, "error", err)
	}

	sugar.Debugw("configuration loaded", "name", configName)
	return config
}

// generateHTML parses the input file and renders it as HTML. When the
// configuration names a template, the rendered fragment replaces the
// HERE_GOES_THE_CONTENT marker inside it; otherwise a standalone page is
// generated.
func generateHTML(inputFileName string, config *yaml.YAML, sugar *zap.SugaredLogger) (string, error) {

	doc, err := adoc.ParseFileWithOptions(inputFileName, adoc.Options{
		Logger: sugar,
		Config: config,
	})
	if err != nil {
		return "", err
	}

	cv := adoc.NewConverter(config, sugar)

	templateName := ""
	if config != nil {
		templateName = config.String("template")
	}
	if templateName == "" {
		return cv.ConvertToString(doc)
	}

	// Build the full document with the template
	tmpl, err := os.ReadFile(templateName)
	if err != nil {
		return "", fmt.Errorf("reading template %v: %w", templateName, err)
	}

	fragment := cv.ConvertFragment(doc)

	buf := textedit.NewBuffer(tmpl)
	buf.ReplaceAllString("HERE_GOES_THE_CONTENT", fragment)
	return buf.String(), nil
}

// processWatch checks periodically if the input file (inputFileName) has been
// modified, and if so it processes the file and writes the result to the
// output file (outputFileName)
func processWatch(inputFileName string, outputFileName string, config *yaml.YAML, sugar *zap.SugaredLogger) error {

	var old_timestamp time.Time
	var current_timestamp time.Time

	// Loop forever
	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}
		current_timestamp = info.ModTime()

		// If current modified timestamp is newer than the previous timestamp, process the file
		if old_timestamp.Before(current_timestamp) {
			old_timestamp = current_timestamp
			fmt.Println("************Processing*************")
			html, err := generateHTML(inputFileName, config, sugar)
			if err != nil {
				sugar.Errorw("processing input file", "name", inputFileName, "error", err)
			} else {
				err = os.WriteFile(outputFileName, []byte(html), 0664)
				if err != nil {
					return err
				}
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)

	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	// Default input file name
	var inputFileName = "index.adoc"

	// Output file name command line parameter
	outputFileName := c.String("output")

	// Dry run
	dryrun := c.Bool("dryrun")

	debug = c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	// Get the input file name
	if c.Args().Present() {
		inputFileName = c.Args().First()
	} else {
		fmt.Printf("no input file provided, using \"%v\"\n", inputFileName)
	}

	// Generate the output file name
	if len(outputFileName) == 0 {
		ext := path.Ext(inputFileName)
		if len(ext) == 0 {
			outputFileName = inputFileName + ".html"
		} else {
			outputFileName = strings.Replace(inputFileName, ext, ".html", 1)
		}
	}

	config := readConfiguration(c.String("config"), inputFileName, sugar)

	// Print a message
	if !dryrun {
		fmt.Printf("processing %v and generating %v\n", inputFileName, outputFileName)
	} else {
		fmt.Printf("dry run: processing %v without writing output\n", inputFileName)
	}

	// This is useful for development.
	// If the user specified to watch, loop forever processing the input file when modified
	if c.Bool("watch") {
		err = processWatch(inputFileName, outputFileName, config, sugar)
		return err
	}

	// Parse the input file and generate the HTML
	html, err := generateHTML(inputFileName, config, sugar)
	if err != nil {
		return err
	}

	// Do nothing if flag dryrun was specified
	if dryrun {
		return nil
	}

	// Write the HTML to the output file
	err = os.WriteFile(outputFileName, []byte(html), 0664)
	if err != nil {
		return err
	}

	return nil
}

func main() {

	app := &cli.App{
		Name:     "adoc",
		Version:  "v0.1",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "process an AsciiDoc document and produce HTML",
		UsageText: "adoc [options] [INPUT_FILE] (default input file is index.adoc)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write html to `FILE` (default is input file name with extension .html)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read configuration from `FILE` (default is adoc.yaml next to the input file)",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just process input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}

}
