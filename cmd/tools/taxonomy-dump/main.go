// taxonomy-dump prints the perception taxonomy tables, or validates a
// snapshot JSON file against them.
//
// Usage:
//
//	taxonomy-dump                 # print all enum tables
//	taxonomy-dump -kind meas_state
//	taxonomy-dump -check rec.json [-policy tolerant]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/omega-data/perception.report/internal/perception"
	"github.com/omega-data/perception.report/internal/perception/snapshot"
	"github.com/omega-data/perception.report/internal/version"
)

var (
	kindFlag   = flag.String("kind", "", "Print a single enumeration table")
	checkFlag  = flag.String("check", "", "Validate a snapshot JSON file and exit")
	policyFlag = flag.String("policy", "strict", "Decode policy for -check: strict or tolerant")
)

func printKind(kind perception.Kind) error {
	members, err := perception.Members(kind)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", kind)
	for _, m := range members {
		fmt.Printf("  %3d  %s\n", m.Code, m.Name)
	}
	return nil
}

func checkSnapshot(path string) error {
	policy, err := snapshot.ParsePolicy(*policyFlag)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoded, err := snapshot.Decode(f, policy)
	if err != nil {
		return err
	}

	fmt.Printf("%s: format %s, modality %s, %d objects\n",
		path, perception.FormatVersion, decoded.Modality, len(decoded.Objects))
	if decoded.Stats.DroppedObjects > 0 {
		fmt.Printf("  dropped %d objects carrying %d unknown codes\n",
			decoded.Stats.DroppedObjects, decoded.Stats.UnknownCodes)
	}
	return nil
}

func main() {
	flag.Parse()

	if *checkFlag != "" {
		if err := checkSnapshot(*checkFlag); err != nil {
			log.Fatalf("%s: %v", *checkFlag, err)
		}
		return
	}

	fmt.Printf("perception taxonomy %s (taxonomy-dump %s)\n\n", perception.FormatVersion, version.String())

	if *kindFlag != "" {
		if err := printKind(perception.Kind(*kindFlag)); err != nil {
			log.Fatal(err)
		}
		return
	}

	for _, kind := range perception.Kinds() {
		if err := printKind(kind); err != nil {
			log.Fatal(err)
		}
		fmt.Println()
	}
}
