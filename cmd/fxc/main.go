// Command fxc precompiles a WGSL shader variant to SPIR-V with a TOML
// reflection manifest, the format read by Script.LoadShader.
//
// Usage:
//
//	fxc -entry fs_main -profile ps_5_0 -D PBR_USE_IBL=1 -o lit_ibl.spv lit.wgsl
package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/framekit/shader"
)

// defineFlag collects repeated -D NAME[=VALUE] flags.
type defineFlag shader.Defines

func (d defineFlag) String() string { return shader.Defines(d).String() }

func (d defineFlag) Set(s string) error {
	name, val, _ := strings.Cut(s, "=")
	if name == "" {
		return fmt.Errorf("empty define in %q", s)
	}
	d[name] = val
	return nil
}

func main() {
	var (
		entry   = flag.String("entry", "main", "entry point")
		profile = flag.String("profile", "ps_5_0", "profile (vs_*, ps_*, cs_*)")
		output  = flag.String("o", "", "output .spv file (default: input with .spv extension)")
		include = flag.String("I", "", "directory searched for #include files")
	)
	defines := defineFlag{}
	flag.Var(defines, "D", "define NAME[=VALUE] (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fxc [flags] file.wgsl")
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)
	out := *output
	if out == "" {
		out = strings.TrimSuffix(input, ".wgsl") + ".spv"
	}

	var opts []shader.Option
	if *include != "" {
		dir := *include
		opts = append(opts, shader.WithIncludeLookup(func(name string) string {
			return filepath.Join(dir, name)
		}))
	}
	c := shader.NewCache(opts...)
	defer c.Close()

	prog, err := c.Compile(context.Background(), input, *entry, *profile, shader.Defines(defines))
	if err != nil {
		log.Fatal(err)
	}

	words := prog.SPIRV()
	spv := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(spv[i*4:], w)
	}
	if err := os.WriteFile(out, spv, 0o644); err != nil {
		log.Fatal(err)
	}

	var manifest bytes.Buffer
	if err := shader.WriteManifest(&manifest, shader.NewManifest(prog)); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(out+shader.ManifestSuffix, manifest.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s (%d words, %d variables)\n", out, len(words), prog.Directory().Len())
}
