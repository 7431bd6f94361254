// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Command posit encodes, decodes and evaluates posit numbers.
//
//   posit [flags] decode 0x5c 0b01001000
//   posit [flags] encode 3.5 -0.1 NaR
//   posit [flags] calc < script.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/avdva/posit"
	"github.com/avdva/posit/calc"
	"github.com/avdva/posit/internal/settings"
)

func main() {
	var cfgPath, rounding string
	var nbits, es int
	var seed int64
	flag.StringVar(&cfgPath, "config", "", "Path to a yaml settings file")
	flag.IntVar(&nbits, "n", 32, "Posit width in bits")
	flag.IntVar(&es, "es", 2, "Exponent field size")
	flag.StringVar(&rounding, "round", settings.RoundingNearest, "Rounding for encode: nearest or stochastic")
	flag.Int64Var(&seed, "seed", 1, "Seed for stochastic rounding")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] decode|encode|calc [args]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	s := settings.Default()
	if cfgPath != "" {
		var err error
		if s, err = settings.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	// explicit flags override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			s.Nbits = nbits
		case "es":
			s.ES = es
		case "round":
			s.Rounding = rounding
		case "seed":
			s.Seed = seed
		}
	})
	cfg, err := s.Config()
	if err != nil {
		log.Fatal(err)
	}
	r, err := s.NewRounding()
	if err != nil {
		log.Fatal(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	switch args[0] {
	case "decode":
		err = decode(os.Stdout, cfg, args[1:])
	case "encode":
		err = encode(os.Stdout, cfg, r, args[1:])
	case "calc":
		err = repl(os.Stdin, os.Stdout, calc.New(cfg))
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func decode(w io.Writer, cfg posit.Config, args []string) error {
	for _, a := range args {
		b, err := cfg.Parse(a)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, cfg.Describe(b))
	}
	return nil
}

func encode(w io.Writer, cfg posit.Config, r posit.Rounding, args []string) error {
	for _, a := range args {
		b, err := cfg.ParseRound(a, r)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, cfg.Describe(b))
	}
	return nil
}

func repl(in io.Reader, out io.Writer, c *calc.Calculator) error {
	scanner := bufio.NewScanner(in)
	cfg := c.Config()
	for scanner.Scan() {
		v, err := c.Eval(scanner.Text())
		switch {
		case err == calc.ErrEmpty:
			continue
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s\n", cfg.Describe(v))
	}
	return scanner.Err()
}
