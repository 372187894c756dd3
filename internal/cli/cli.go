// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/projcat/projcat/internal/config"
	"github.com/projcat/projcat/internal/ignore"
	"github.com/projcat/projcat/internal/report"
	"github.com/projcat/projcat/internal/selector"
	"github.com/projcat/projcat/internal/services/clipboard"
	"github.com/projcat/projcat/internal/tokenizer"
	"github.com/projcat/projcat/internal/tree"
	"github.com/projcat/projcat/internal/types"
	"github.com/projcat/projcat/internal/utils"
)

const (
	rootUse              = "projcat"
	rootShortDescription = "projcat renders project snapshots"
	rootLongDescription  = `projcat walks configured directories, renders their structure as an
indented tree, and concatenates selected file contents into one combined
report, honoring gitignore-style exclusion rules. The paths subcommand
reconstructs a flat path list from previously rendered tree text.`

	configFlagName        = "config"
	configFlagShorthand   = "c"
	configFlagDescription = "path to the report configuration file"
	clipboardFlagName     = "clipboard"
	clipboardDescription  = "copy output to the system clipboard"
	dirOnlyFlagName       = "dironly"
	dirOnlyDescription    = "print only directory structure, no file contents"
	skipTreeFlagName      = "skip-tree"
	skipTreeDescription   = "omit directory trees, print only file contents"
	noColorFlagName       = "no-color"
	noColorDescription    = "disable colorized console output"
	tokensFlagName        = "tokens"
	tokensDescription     = "log a token count for the generated report"
	modelFlagName         = "model"
	modelDescription      = "tokenizer model used for token counting"
	versionFlagName       = "version"
	versionDescription    = "display application version"
	versionTemplate       = "projcat version: %s\n"

	pathsUse              = "paths [file]"
	pathsShortDescription = "reconstruct paths from rendered tree text"
	pathsLongDescription  = `Parse previously rendered tree text (or a flat path list) read from a file
argument or standard input, and print the encoded paths as a YAML-style list.`
	pathsUsageExample = `  # Paths of every Python file encoded in a saved tree
  projcat paths --type files --pattern '\.py$' tree.txt

  # Reconstruct all paths from clipboard-pasted text on stdin
  projcat paths`

	typeFlagName           = "type"
	typeFlagDescription    = "path type to include: files, dirs, or both"
	patternFlagName        = "pattern"
	patternFlagDescription = "regex matched anywhere in file names"

	invalidTypeMessage      = "invalid type value '%s'"
	clipboardCopiedNotice   = "Output has been copied to the clipboard."
	warningIgnoreFileFormat = "Warning: ignore patterns not loaded from %s: %v\n"
	warningClipboardFormat  = "Warning: clipboard copy failed: %v\n"
	warningTokenizerFormat  = "Warning: token counting unavailable: %v\n"
	pathListItemFormat      = "  - %s\n"

	summaryMessage = "report assembled"

	ansiReset = "\033[0m"
	ansiGreen = "\033[92m"
	ansiBlue  = "\033[94m"
)

// Execute runs the projcat application.
func Execute(loggerInstance *zap.Logger) error {
	rootCommand := createRootCommand(loggerInstance)
	return rootCommand.Execute()
}

// reportOptions stores flag values for the root report run.
type reportOptions struct {
	configPath      string
	copyToClipboard bool
	directoriesOnly bool
	skipTree        bool
	disableColor    bool
	countTokens     bool
	model           string
}

func createRootCommand(loggerInstance *zap.Logger) *cobra.Command {
	var showVersion bool
	var options reportOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runReport(loggerInstance, options, clipboard.NewService(), command.OutOrStdout())
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionDescription)
	rootCommand.Flags().StringVarP(&options.configPath, configFlagName, configFlagShorthand, config.DefaultFileName, configFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, clipboardFlagName, false, clipboardDescription)
	rootCommand.Flags().BoolVar(&options.directoriesOnly, dirOnlyFlagName, false, dirOnlyDescription)
	rootCommand.Flags().BoolVar(&options.skipTree, skipTreeFlagName, false, skipTreeDescription)
	rootCommand.Flags().BoolVar(&options.disableColor, noColorFlagName, false, noColorDescription)
	rootCommand.Flags().BoolVar(&options.countTokens, tokensFlagName, false, tokensDescription)
	rootCommand.Flags().StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelDescription)
	rootCommand.AddCommand(createPathsCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runReport executes the full snapshot pipeline. Only an unreadable
// configuration aborts the run; missing directories, files, and invalid
// patterns surface as diagnostics inside the report and the exit code stays
// zero.
func runReport(loggerInstance *zap.Logger, options reportOptions, copier clipboard.Copier, echoWriter io.Writer) error {
	configuration, loadError := config.Load(options.configPath)
	if loadError != nil {
		return loadError
	}

	matcher := ignore.Empty()
	if configuration.Gitignore != "" {
		ignoreFilePath := filepath.Clean(utils.NormalizePath(configuration.Gitignore))
		loadedMatcher, ignoreError := ignore.NewFromFile(ignoreFilePath)
		if ignoreError != nil {
			fmt.Fprintf(os.Stderr, warningIgnoreFileFormat, ignoreFilePath, ignoreError)
		}
		matcher = loadedMatcher
	}

	var selection selector.Result
	if !options.directoriesOnly {
		selection = selector.New(matcher).Select(configuration.Files, configuration.SelectionRules())
	}

	printer := entryPrinter{writer: echoWriter, colored: !options.disableColor}
	assembler := &report.Assembler{
		Renderer: tree.NewRenderer(matcher),
		Sink:     printer.print,
	}
	entries := assembler.Assemble(configuration.Dirs, selection, report.Options{
		DirOnly:  options.directoriesOnly,
		SkipTree: options.skipTree,
	})
	combinedReport := report.Render(entries)

	if options.copyToClipboard {
		if copyError := copier.Copy(combinedReport); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		} else {
			fmt.Fprintln(echoWriter, printer.colorize("\n"+clipboardCopiedNotice, ansiGreen))
		}
	}

	summaryFields := []zap.Field{
		zap.Int("files", len(selection.Files)),
		zap.String("size", utils.FormatFileSize(totalSelectedBytes(selection))),
		zap.Int("diagnostics", len(selection.Diagnostics)),
	}
	if options.countTokens {
		if tokenField, tokenError := countReportTokens(combinedReport, options.model); tokenError != nil {
			fmt.Fprintf(os.Stderr, warningTokenizerFormat, tokenError)
		} else {
			summaryFields = append(summaryFields, tokenField...)
		}
	}
	loggerInstance.Info(summaryMessage, summaryFields...)

	return nil
}

func totalSelectedBytes(selection selector.Result) int64 {
	var totalBytes int64
	for _, selectedFile := range selection.Files {
		totalBytes += selectedFile.SizeBytes
	}
	return totalBytes
}

func countReportTokens(reportText string, model string) ([]zap.Field, error) {
	counter, encodingName, counterError := tokenizer.NewCounter(model)
	if counterError != nil {
		return nil, counterError
	}
	countResult, countError := tokenizer.CountBytes(counter, []byte(reportText))
	if countError != nil {
		return nil, countError
	}
	if !countResult.Counted {
		return nil, nil
	}
	return []zap.Field{
		zap.Int("tokens", countResult.Tokens),
		zap.String("encoding", encodingName),
	}, nil
}

// createPathsCommand returns the paths subcommand, the inverse transform of
// the tree renderer.
func createPathsCommand() *cobra.Command {
	var pathType string
	var namePattern string
	var copyToClipboard bool

	pathsCommand := &cobra.Command{
		Use:     pathsUse,
		Short:   pathsShortDescription,
		Long:    pathsLongDescription,
		Example: pathsUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			normalizedType := strings.ToLower(pathType)
			if !isSupportedPathType(normalizedType) {
				return fmt.Errorf(invalidTypeMessage, pathType)
			}
			treeText, readError := readPathsInput(command.InOrStdin(), arguments)
			if readError != nil {
				return readError
			}
			parsedPaths, parseError := tree.Parse(treeText, normalizedType, namePattern)
			if parseError != nil {
				return parseError
			}
			formattedList := formatPathList(parsedPaths)
			fmt.Fprint(command.OutOrStdout(), formattedList)
			if copyToClipboard {
				if copyError := clipboard.NewService().Copy(formattedList); copyError != nil {
					fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
				}
			}
			return nil
		},
	}

	pathsCommand.Flags().StringVar(&pathType, typeFlagName, types.PathTypeBoth, typeFlagDescription)
	pathsCommand.Flags().StringVar(&namePattern, patternFlagName, "", patternFlagDescription)
	pathsCommand.Flags().BoolVar(&copyToClipboard, clipboardFlagName, false, clipboardDescription)
	return pathsCommand
}

func isSupportedPathType(pathType string) bool {
	switch pathType {
	case types.PathTypeFiles, types.PathTypeDirectories, types.PathTypeBoth:
		return true
	default:
		return false
	}
}

func readPathsInput(standardInput io.Reader, arguments []string) (string, error) {
	if len(arguments) == 1 {
		inputBytes, readError := os.ReadFile(arguments[0])
		if readError != nil {
			return "", fmt.Errorf("read tree text from %s: %w", arguments[0], readError)
		}
		return string(inputBytes), nil
	}
	inputBytes, readError := io.ReadAll(standardInput)
	if readError != nil {
		return "", fmt.Errorf("read tree text from stdin: %w", readError)
	}
	return string(inputBytes), nil
}

// formatPathList renders paths as a YAML-style sequence, two-space indented.
func formatPathList(paths []string) string {
	var builder strings.Builder
	for _, path := range paths {
		builder.WriteString(fmt.Sprintf(pathListItemFormat, path))
	}
	return builder.String()
}

// entryPrinter echoes report entries to the console as they are produced.
// Coloring is a presentation concern handled entirely here: directory headers
// and tree lines render blue, everything else uncolored.
type entryPrinter struct {
	writer  io.Writer
	colored bool
}

func (printer entryPrinter) print(entry types.ReportEntry) {
	segment := report.EntryText(entry)
	switch entry.Kind {
	case types.EntryKindDirectoryHeader, types.EntryKindTreeLine:
		segment = printer.colorize(segment, ansiBlue)
	}
	fmt.Fprint(printer.writer, segment)
}

func (printer entryPrinter) colorize(text string, colorCode string) string {
	if !printer.colored || colorCode == "" {
		return text
	}
	return colorCode + text + ansiReset
}
