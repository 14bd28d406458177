package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanprep/internal/core/domain"
)

var structureCmd = &cobra.Command{
	Use:   "structure <base>",
	Short: "Create a folder tree per term",
	Long: `Creates <base>/<term>/<line> for every term and every template line.
Existing folders are left untouched.

Terms are given with --term, or generated with --generate and --count
(Femur_I, Femur_II, ...). Template lines come from --template-file and --line.

Example:
  scanprep structure ./dataset --generate Femur --count 3 --line Photos --line Models/Raw`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

var structureTermsCmd = &cobra.Command{
	Use:   "terms <base> <count>",
	Short: "Print generated terms",
	Args:  cobra.ExactArgs(2),
	RunE:  runStructureTerms,
}

func init() {
	structureCmd.Flags().StringSlice("term", nil, "folder term (repeatable)")
	structureCmd.Flags().String("generate", "", "base name for generated terms")
	structureCmd.Flags().Int("count", 0, "number of generated terms")
	structureCmd.Flags().String("template-file", "", "file with one sub-folder path per line")
	structureCmd.Flags().StringSlice("line", nil, "template line (repeatable)")
	structureCmd.AddCommand(structureTermsCmd)
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	if structureService == nil {
		return errors.New("structure service not configured")
	}
	base := args[0]

	terms, _ := cmd.Flags().GetStringSlice("term")
	generate, _ := cmd.Flags().GetString("generate")
	count, _ := cmd.Flags().GetInt("count")
	if generate != "" {
		terms = append(terms, structureService.GenerateTerms(generate, count)...)
	}
	if len(terms) == 0 {
		return fmt.Errorf("%w: give --term or --generate with --count", domain.ErrInvalidInput)
	}

	var template domain.StructureTemplate
	if file, _ := cmd.Flags().GetString("template-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("%w: reading template: %w", domain.ErrNotFound, err)
		}
		template = domain.ParseTemplate(string(data))
	}
	lines, _ := cmd.Flags().GetStringSlice("line")
	template = append(template, domain.NormalizeTemplate(lines)...)

	var log []domain.OperationLogEntry
	err := runJob(cmd.Context(), domain.JobStructure, base, func() (string, error) {
		log = structureService.Build(base, terms, template)
		return logDetail(log), nil
	})
	if err != nil {
		return err
	}

	printLog(cmd, log)
	return nil
}

func runStructureTerms(cmd *cobra.Command, args []string) error {
	if structureService == nil {
		return errors.New("structure service not configured")
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: count must be a number", domain.ErrInvalidInput)
	}
	for _, term := range structureService.GenerateTerms(args[0], count) {
		cmd.Println(term)
	}
	return nil
}
