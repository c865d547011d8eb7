// Command anvilcat dumps the contents of a save-file as pretty-printed
// NBT: either a standalone gzip .dat file, or one slot of a region
// container addressed by (rz, rx) or a flat index.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nictuku/anvil/nbt"
	"github.com/nictuku/anvil/region"
)

func main() {
	var (
		index = flag.Int("index", -1, "region slot index [0, 1024), mutually exclusive with -rz/-rx")
		rz    = flag.Int("rz", 0, "region-relative chunk z, used with -rx")
		rx    = flag.Int("rx", 0, "region-relative chunk x, used with -rz")
		isAnv = flag.Bool("region", false, "treat path as a region container instead of a standalone .dat file")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: anvilcat [-region [-index N | -rz Z -rx X]] <path>")
		os.Exit(2)
	}
	path := args[0]

	if !*isAnv {
		*isAnv = looksLikeRegionFile(path)
	}

	if *isAnv {
		if err := dumpRegionSlot(path, *index, *rz, *rx); err != nil {
			fmt.Fprintln(os.Stderr, "anvilcat:", err)
			os.Exit(1)
		}
		return
	}

	if err := dumpDatFile(path); err != nil {
		fmt.Fprintln(os.Stderr, "anvilcat:", err)
		os.Exit(1)
	}
}

func looksLikeRegionFile(path string) bool {
	return strings.HasSuffix(path, ".anv") || strings.Contains(path, "region")
}

func dumpDatFile(path string) error {
	c, err := nbt.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Println(nbt.Sprint(c))
	return nil
}

func dumpRegionSlot(path string, index, rz, rx int) error {
	s, err := region.OpenStream(mustOpen(path))
	if err != nil {
		return err
	}
	defer s.Close()

	var v nbt.Value
	if index >= 0 {
		v, err = s.Load(index)
	} else {
		v, err = s.LoadAt(rz, rx)
	}
	if err != nil {
		return err
	}
	if v == nil {
		fmt.Println("(empty slot)")
		return nil
	}
	fmt.Println(nbt.Sprint(v))
	return nil
}

func mustOpen(path string) *os.File {
	f, err := os.OpenFile(path, os.O_RDWR, 0666)
	if err != nil {
		fmt.Fprintln(os.Stderr, "anvilcat:", err)
		os.Exit(1)
	}
	return f
}
