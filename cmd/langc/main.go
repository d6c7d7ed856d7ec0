// Command langc is a thin driver over the compiler pipeline: tokenize,
// parse, check, lower_to_hir, lower_to_mir. It carries no language
// semantics of its own — every stage lives in internal/pipeline and
// the packages it wires together.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/axonlang/langcore/internal/checker"
	"github.com/axonlang/langcore/internal/config"
	"github.com/axonlang/langcore/internal/lexer"
	"github.com/axonlang/langcore/internal/pipeline"
)

var (
	Version = "dev"
	Commit  = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		configFlag  = flag.String("config", "langc.yaml", "Path to an optional compiler config file")
	)

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: loading config: %v\n", red("Error"), err)
		os.Exit(1)
	}
	if !cfg.ColorEnabled() {
		color.NoColor = true
	}

	command := flag.Arg(0)

	switch command {
	case "tokenize":
		requireFile(command)
		tokenizeFile(flag.Arg(1))
	case "parse":
		requireFile(command)
		parseFile(flag.Arg(1))
	case "check":
		requireFile(command)
		checkFile(flag.Arg(1))
	case "lower-hir":
		requireFile(command)
		lowerHirFile(flag.Arg(1))
	case "lower-mir":
		requireFile(command)
		lowerMirFile(flag.Arg(1))
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func requireFile(command string) {
	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		fmt.Printf("Usage: langc %s <file>\n", command)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("langc %s (%s)\n", bold(Version), Commit)
}

func printHelp() {
	fmt.Println(bold("langc - compiler front-end/middle-end driver"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  langc <command> <file>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>     Print the token stream\n", cyan("tokenize"))
	fmt.Printf("  %s <file>        Parse and print the number of top-level items\n", cyan("parse"))
	fmt.Printf("  %s <file>        Type-check and print diagnostics\n", cyan("check"))
	fmt.Printf("  %s <file>    Lower to HIR\n", cyan("lower-hir"))
	fmt.Printf("  %s <file>    Lower to MIR\n", cyan("lower-mir"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version        Print version information")
	fmt.Println("  --help           Show this help message")
	fmt.Println("  --config <file>  Path to an optional compiler config file (default langc.yaml)")
}

func readSource(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read file %q: %v\n", red("Error"), path, err)
		os.Exit(1)
	}
	return string(data)
}

func tokenizeFile(path string) {
	src := readSource(path)
	toks := lexer.Tokenize(src)
	for _, tok := range toks {
		fmt.Printf("%-20s %-12s %q\n", tok.Kind, tok.Span, tok.Literal)
	}
}

func parseFile(path string) {
	src := readSource(path)
	var p pipeline.Pipeline
	res, err := p.Run(src, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s %d top-level items\n", green("OK"), len(res.AST.Items))
}

func checkFile(path string) {
	src := readSource(path)
	var p pipeline.Pipeline
	res, err := p.Run(src, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
		os.Exit(1)
	}
	if len(res.Errs) == 0 {
		fmt.Println(green("OK") + ": no errors")
		return
	}
	for _, e := range res.Errs {
		printCheckError(e)
	}
	os.Exit(1)
}

func printCheckError(e *checker.Error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", red(e.Code), e.Error())
}

func lowerHirFile(path string) {
	src := readSource(path)
	var p pipeline.Pipeline
	res, err := p.Run(src, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s %d functions lowered to HIR\n", green("OK"), len(res.HIR.Functions))
}

func lowerMirFile(path string) {
	src := readSource(path)
	var p pipeline.Pipeline
	res, err := p.Run(src, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
		os.Exit(1)
	}
	total := 0
	for _, fn := range res.MIR.Functions {
		total += len(fn.Blocks)
	}
	fmt.Printf("%s %d functions, %d blocks lowered to MIR\n", green("OK"), len(res.MIR.Functions), total)
	if res.MIR.HasEntry {
		fmt.Printf("%s %s\n", yellow("entry:"), res.MIR.Entry)
	}
}
