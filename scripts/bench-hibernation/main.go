// bench-hibernation measures heap memory before and after Hibernate()
// calls on large priority interval multimaps.
//
// Usage:
//
//	go run ./scripts/bench-hibernation --entries 2000000 --maps 4 \
//	  --profile-dir docs/profiles/spanmap-hibernation
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/Sumatoshi-tech/spanlib/pkg/span"
	"github.com/Sumatoshi-tech/spanlib/pkg/spanmap"
)

const (
	benchSeed  = 1
	coordRange = 1 << 24
	maxSpanLen = 64
	dirPerm    = 0o755
	bytesPerMB = 1e6
)

func main() {
	entries := flag.Int("entries", 2_000_000, "Entries per map")
	mapCount := flag.Int("maps", 4, "Number of maps to build")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *profileDir == "" {
		log.Fatal("--profile-dir is required")
	}

	if err := os.MkdirAll(*profileDir, dirPerm); err != nil {
		log.Fatalf("mkdir profile-dir: %v", err)
	}

	if *cpuProfile {
		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	type heapSnapshot struct {
		label     string
		heapInUse uint64
		heapSys   uint64
		heapIdle  uint64
	}

	var snapshots []heapSnapshot

	takeSnapshot := func(label string) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		snapshots = append(snapshots, heapSnapshot{
			label:     label,
			heapInUse: m.HeapInuse,
			heapSys:   m.HeapSys,
			heapIdle:  m.HeapIdle,
		})
		log.Printf("  [heap] %-40s inuse=%6.1f MB  sys=%6.1f MB  idle=%6.1f MB",
			label, float64(m.HeapInuse)/bytesPerMB, float64(m.HeapSys)/bytesPerMB, float64(m.HeapIdle)/bytesPerMB)
	}

	writeHeapProfile := func(name string) {
		runtime.GC()
		runtime.GC()

		path := filepath.Join(*profileDir, name)

		f, ferr := os.Create(path)
		if ferr != nil {
			log.Printf("warning: create heap profile %s: %v", path, ferr)

			return
		}
		defer f.Close()

		if perr := pprof.WriteHeapProfile(f); perr != nil {
			log.Printf("warning: write heap profile %s: %v", path, perr)
		}
	}

	rng := rand.New(rand.NewSource(benchSeed))

	log.Printf("building %d maps of %d entries", *mapCount, *entries)

	maps := make([]spanmap.Map[uint32], *mapCount)
	for i := range maps {
		maps[i] = buildMap(rng, *entries)
	}

	takeSnapshot("live_maps")
	writeHeapProfile("heap_live_maps.prof")

	// Hibernate all, dropping the live trees.
	snaps := make([]*spanmap.Snapshot, len(maps))

	totalCompressed := 0

	for i := range maps {
		s, err := maps[i].Hibernate()
		if err != nil {
			log.Fatalf("hibernate map %d: %v", i, err)
		}

		snaps[i] = s
		totalCompressed += s.CompressedSize()
		maps[i] = spanmap.Map[uint32]{}
	}

	takeSnapshot("after_hibernate")
	writeHeapProfile("heap_after_hibernate.prof")
	log.Printf("compressed payload: %.1f MB total", float64(totalCompressed)/bytesPerMB)

	// Boot all back.
	for i, s := range snaps {
		m, err := spanmap.Boot[uint32](s)
		if err != nil {
			log.Fatalf("boot map %d: %v", i, err)
		}

		maps[i] = m
		snaps[i] = nil
	}

	takeSnapshot("after_boot")
	writeHeapProfile("heap_after_boot.prof")

	// Keep the booted maps reachable until the last measurement.
	total := 0
	for i := range maps {
		total += maps[i].Len()
	}

	log.Printf("booted %d entries total", total)

	// Print summary table.
	fmt.Println()
	fmt.Println("=== Heap Memory Timeline ===")
	fmt.Printf("%-30s %10s %10s %10s\n", "Phase", "InUse(MB)", "Sys(MB)", "Idle(MB)")
	fmt.Println("------------------------------+----------+----------+----------")

	for _, s := range snapshots {
		fmt.Printf("%-30s %10.1f %10.1f %10.1f\n",
			s.label, float64(s.heapInUse)/bytesPerMB, float64(s.heapSys)/bytesPerMB, float64(s.heapIdle)/bytesPerMB)
	}

	if len(snapshots) >= 2 {
		live, hibernated := snapshots[0], snapshots[1]
		delta := float64(live.heapInUse) - float64(hibernated.heapInUse)
		pct := (delta / float64(live.heapInUse)) * 100
		fmt.Printf("\nhibernation freed %.1f MB (%.1f%%)\n", delta/bytesPerMB, pct)
	}
}

// buildMap inserts random overlapping entries through the public API.
func buildMap(rng *rand.Rand, entries int) spanmap.Map[uint32] {
	var m spanmap.Map[uint32]

	for i := range entries {
		lo := rng.Intn(coordRange)

		var err error

		m, err = m.Insert(span.Span{Lo: lo, Hi: lo + 1 + rng.Intn(maxSpanLen)}, uint32(i))
		if err != nil {
			log.Fatalf("insert: %v", err)
		}
	}

	return m
}
