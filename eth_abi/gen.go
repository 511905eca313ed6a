package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"text/template"

	"github.com/Mitranim/repr"
	"github.com/pkg/errors"
	"github.com/purelabio/ethabi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const selfPkgPath = "github.com/purelabio/ethabi"

type genFlags struct {
	Solc         string
	Out          string
	Pkg          string
	Self         bool
	CombinedJson string
}

var codeTemplate = template.Must(template.New("").
	Funcs(template.FuncMap{"reprBytes": func(input []byte) string { return repr.String(input) }}).
	Parse(`
{{range .Defs}}

const {{.ContractName}}AbiJson = ` + "`" + `{{.AbiJson}}` + "`" + `

var {{.ContractName}}Abi = {{$.Prefix}}MustParseAbiJson({{.ContractName}}AbiJson)

var {{.ContractName}}Code = {{.Code | reprBytes}}

const {{.ContractName}}CodeHex = ` + "`" + `{{.Code.String}}` + "`" + `

{{end}}
`))

func newGenCmd() *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "gen <filePath:contractName ...>",
		Short: "Generate Go code with ABI definitions from Solidity contracts",
		Long: `Compiles Solidity contracts with solc and writes a Go file with their ABI
definitions and code. Specs must have the form "filePath:contractName".

For each contract, the generated file declares:

	const <Name>AbiJson string
	var   <Name>Abi     ethabi.Abi
	var   <Name>Code    []byte
	const <Name>CodeHex string

To use with "go generate", include a "go:generate" comment in your source code:

	//go:generate eth_abi gen --out gen_contracts.go sol/Test.sol:Test

The solc compiler is invoked with "--optimize". Use "--combined-json" to read
compiler output from a file instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if env := os.Getenv(envSolc); env != `` && !cmd.Flags().Changed("solc") {
				flags.Solc = env
			}
			return runGen(flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.Solc, "solc", "solc", "Solidity compiler; defaults to $"+envSolc+" when set")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output path for the generated Go file (required)")
	cmd.Flags().StringVar(&flags.Pkg, "pkg", "main", "package name for the generated code")
	cmd.Flags().BoolVar(&flags.Self, "self", false, "generate without imports or package prefixes")
	cmd.Flags().StringVar(&flags.CombinedJson, "combined-json", "", "read solc --combined-json=abi,bin output from this file")
	return cmd
}

func runGen(flags genFlags, specs []string) error {
	if flags.Out == `` {
		return errors.New(`must specify "--out": output path for the generated Go file`)
	}

	// Extract file paths from <filePath>:<contractName> specs
	var filePaths []string
	for _, spec := range specs {
		pair := strings.Split(spec, ":")
		if len(pair) < 2 {
			return errors.Errorf(`contract specs must have the form "<filePath>:<contractName>", got %q`, spec)
		}
		filePaths = append(filePaths, pair[0])
	}

	compiled, err := readCompilerOutput(flags, filePaths)
	if err != nil {
		return err
	}

	defs, err := ethabi.ReadContractDefs(compiled)
	if err != nil {
		return errors.Wrap(err, "failed to decode ABI output from solc")
	}

	// Pick the specified contracts, validating their presence.
	picked := make([]ethabi.ContractDef, 0, len(specs))
	for _, spec := range specs {
		def, ok := defs[spec]
		if !ok {
			return errors.Errorf("contract %q is missing from the solc output; found contracts: %q",
				spec, sortedDefNames(defs))
		}
		def.AbiJson, err = prettyJson(def.AbiJson)
		if err != nil {
			return errors.Wrapf(err, "failed to format the ABI of %q", spec)
		}
		picked = append(picked, def)
	}

	source, err := genSource(flags, picked)
	if err != nil {
		return err
	}

	const readWriteMode = os.FileMode(0600)
	err = os.WriteFile(flags.Out, source, readWriteMode)
	if err != nil {
		return errors.Wrapf(err, "failed to write %q", flags.Out)
	}

	ethabi.Logger().Info("generated contract definitions",
		zap.String("out", flags.Out), zap.Strings("contracts", specs))
	return nil
}

func readCompilerOutput(flags genFlags, filePaths []string) (io.Reader, error) {
	if flags.CombinedJson != `` {
		content, err := os.ReadFile(flags.CombinedJson)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", flags.CombinedJson)
		}
		return bytes.NewReader(content), nil
	}

	solcArgs := append([]string{"--combined-json=abi,bin", "--optimize"}, filePaths...)
	cmd := exec.Command(flags.Solc, solcArgs...)

	var buf bytes.Buffer
	cmd.Stdin = os.Stdin
	cmd.Stdout = &buf
	cmd.Stderr = os.Stderr

	ethabi.Logger().Debug("invoking solc", zap.String("solc", flags.Solc), zap.Strings("args", solcArgs))
	err := cmd.Run()
	if err != nil {
		return nil, errors.Wrap(err, "failed to invoke solc")
	}
	return &buf, nil
}

func genSource(flags genFlags, defs []ethabi.ContractDef) ([]byte, error) {
	prefix := "ethabi."
	if flags.Self {
		prefix = ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by eth_abi gen. DO NOT EDIT.\n\npackage %v\n", flags.Pkg)
	if !flags.Self {
		fmt.Fprintf(&buf, "import %q\n", selfPkgPath)
	}

	err := codeTemplate.Execute(&buf, struct {
		Prefix string
		Defs   []ethabi.ContractDef
	}{prefix, defs})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	source, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "failed to format generated code")
	}
	return source, nil
}

func sortedDefNames(defs map[string]ethabi.ContractDef) []string {
	var names []string
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func prettyJson(input string) (string, error) {
	var val interface{}
	err := json.Unmarshal([]byte(input), &val)
	if err != nil {
		return ``, errors.WithStack(err)
	}
	pretty, err := json.MarshalIndent(val, "", "\t")
	return string(pretty), errors.WithStack(err)
}
