/*
errgen is a console utility translating error-spec files to Go source files.
Usage is

	errgen [-p <name>] [-o <name>] <file>
	errgen -m <file>

-m <file> defines a YAML manifest driving generation of several spec files at once;

-o <name> defines output file name, default is the name of input file with .go suffix;

-p <name> defines Go package name, default is dir name of output file;

<file> defines an error-spec file parsable by errspec.ParseAll(); several specs
in one file are separated by ";".

A manifest lists the target package, the output file, and the spec files whose
contents are generated into it, with paths resolved relative to the manifest:

	package: myerrors
	out: errors_gen.go
	specs:
	  - api.errs
	  - io.errs
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"errgen.dev/errgen/errspec"
	"errgen.dev/errgen/gen"
	"errgen.dev/errgen/source"
)

var (
	manifestName                         string
	inFileName, outFileName, packageName string
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage is  errgen ([-p <name>] [-o <name>] <file>) | (-m <file>)")
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), "  <file>")
		fmt.Fprintln(flag.CommandLine.Output(), "\terror-spec file name")
	}

	flag.StringVar(&manifestName, "m", "", "YAML manifest file name")
	flag.StringVar(&outFileName, "o", "", "output file name, default is the name of input file with .go suffix")
	flag.StringVar(&packageName, "p", "", "Go package name, default is dir name of output file")
	flag.Parse()
	inFileName = flag.Arg(0)
	if (inFileName == "") == (manifestName == "") {
		flag.Usage()
		os.Exit(2)
	}

	var e error
	if manifestName != "" {
		e = runManifest(manifestName)
	} else {
		e = runFile(inFileName, outFileName, packageName)
	}

	if e != nil {
		fmt.Println(e.Error())
		os.Exit(3)
	}
}

func runFile(inName, outName, pkg string) error {
	if outName == "" {
		ext := filepath.Ext(inName)
		outName = inName[:len(inName)-len(ext)] + ".go"
	}

	var specs []*errspec.ErrorSpec
	src, e := os.ReadFile(inName)
	if e == nil {
		specs, e = errspec.ParseAll(source.New(inName, src))
	}
	var content []byte
	if e == nil {
		if pkg == "" {
			pkg, e = dirPackageName(outName)
		}
		if e == nil {
			content, e = gen.File(pkg, specs...)
		}
	}
	if e == nil {
		e = os.WriteFile(outName, content, 0o666)
	}

	return e
}

type manifest struct {
	Package string   `yaml:"package"`
	Out     string   `yaml:"out"`
	Specs   []string `yaml:"specs"`
}

func runManifest(name string) error {
	content, e := os.ReadFile(name)
	if e != nil {
		return e
	}

	var m manifest
	e = yaml.Unmarshal(content, &m)
	if e != nil {
		return fmt.Errorf("%s: %w", name, e)
	}
	if m.Out == "" || len(m.Specs) == 0 {
		return fmt.Errorf("%s: manifest must define out and specs", name)
	}

	dir := filepath.Dir(name)
	outName := filepath.Join(dir, m.Out)
	pkg := m.Package
	if pkg == "" {
		pkg, e = dirPackageName(outName)
		if e != nil {
			return e
		}
	}

	specs := make([]*errspec.ErrorSpec, 0)
	for _, specName := range m.Specs {
		specName = filepath.Join(dir, specName)
		src, e := os.ReadFile(specName)
		if e != nil {
			return e
		}
		parsed, e := errspec.ParseAll(source.New(specName, src))
		if e != nil {
			return e
		}
		specs = append(specs, parsed...)
	}

	generated, e := gen.File(pkg, specs...)
	if e != nil {
		return e
	}

	return os.WriteFile(outName, generated, 0o666)
}

func dirPackageName(outName string) (string, error) {
	dir, e := filepath.Abs(outName)
	if e != nil {
		return "", e
	}

	dir, _ = filepath.Split(dir)
	_, pkg := filepath.Split(dir[:len(dir)-1])
	return pkg, nil
}
