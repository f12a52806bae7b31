// Command billpdf renders a JSON render request to a PDF file.
//
//	billpdf -in request.json -out ./pdfs
//	cat request.json | billpdf -qr
//
// Defaults can be set in the environment or in a .env file:
//
//	BILLPDF_OUT=./pdfs
//	BILLPDF_QR=true
//	BILLPDF_REF=false
//
// Flags given on the command line win over the environment.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/lvillar/billpdf"
	"github.com/lvillar/billpdf/docjson"
)

// toggle is a bool option that stays out of the render unless a flag or
// the environment sets it, so a request's own options still apply.
type toggle struct {
	value, set bool
}

type config struct {
	in, out, env string
	qr, ref      toggle
}

func parseFlags(args []string) (*config, map[string]bool, error) {
	fset := flag.NewFlagSet("billpdf", flag.ContinueOnError)
	c := &config{}
	fset.StringVar(&c.in, "in", "-", "request file, - for stdin")
	fset.StringVar(&c.out, "out", ".", "output directory")
	fset.StringVar(&c.env, "env", ".env", "dotenv file with BILLPDF_* defaults")
	fset.BoolVar(&c.qr.value, "qr", false, "draw a UPI payment QR code")
	fset.BoolVar(&c.ref.value, "ref", false, "draw a machine-readable reference code")
	if err := fset.Parse(args); err != nil {
		return nil, nil, err
	}
	set := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { set[f.Name] = true })
	c.qr.set, c.ref.set = set["qr"], set["ref"]
	return c, set, nil
}

func envBool(key string, t *toggle) error {
	v := os.Getenv(key)
	if t.set || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*t = toggle{value: b, set: true}
	return nil
}

// applyEnv fills in options the command line left unset.
func (c *config) applyEnv(set map[string]bool) error {
	if v := os.Getenv("BILLPDF_OUT"); v != "" && !set["out"] {
		c.out = v
	}
	if err := envBool("BILLPDF_QR", &c.qr); err != nil {
		return err
	}
	return envBool("BILLPDF_REF", &c.ref)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func run(c *config, logger *log.Logger) (string, error) {
	data, err := readInput(c.in)
	if err != nil {
		return "", err
	}
	p, err := docjson.Parse(data)
	if err != nil {
		return "", err
	}
	opts := append(p.Options, billpdf.WithLogger(logger))
	if c.qr.set {
		opts = append(opts, billpdf.WithPaymentQR(c.qr.value))
	}
	if c.ref.set {
		opts = append(opts, billpdf.WithReferenceCode(c.ref.value))
	}
	res, err := billpdf.Render(p.Document, p.Profile, opts...)
	if err != nil {
		return "", err
	}
	for _, w := range res.Warnings {
		logger.Printf("warning: %v", w)
	}
	if err := os.MkdirAll(c.out, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(c.out, billpdf.SafeFileName(res.FileName))
	if err := os.WriteFile(path, res.Data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("billpdf: ")

	c, set, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := godotenv.Load(c.env); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading %s: %v", c.env, err)
	}
	if err := c.applyEnv(set); err != nil {
		log.Fatal(err)
	}

	path, err := run(c, log.Default())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", path)
}
