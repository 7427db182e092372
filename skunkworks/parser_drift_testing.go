package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mwiater/quantbench/internal/metrics"
)

// --- Configuration ---

// Set the output filename for the final JSON report.
const outputReportFile = "skunkworks/reports/parser_drift_report.json"

// Set the log file path.
const logFilePath = "skunkworks/logs/parser_drift.log"

// Numeric comparisons tolerate this absolute difference.
const tolerance = 1e-9

// --- Canned Outputs ---
//
// One case per llama.cpp output generation the scraper has been run
// against. When upstream renames a timing line, the matching case here
// starts failing before a real benchmark silently records zeros.

type benchCase struct {
	name   string
	output string
	want   metrics.Record
}

var benchCases = []benchCase{
	{
		name: "perf_context_print (b4000+)",
		output: `build: 4589 (a5203b4) with cc (Ubuntu 13.2.0) for x86_64-linux-gnu
load_tensors: model size = 1230.50 MB
llama_kv_cache: KV cache = 226.00 MB
sampler params: temp = 0.000
llama_perf_context_print:        load time =    1523.45 ms
llama_perf_context_print: prompt eval time =     210.50 ms /    12 tokens (   17.54 ms per token,    57.01 tokens per second)
llama_perf_context_print:        eval time =    5000.00 ms /   250 runs   (   20.00 ms per token,    50.00 tokens per second)
llama_perf_context_print:       total time =    6890.12 ms /   262 tokens
`,
		want: metrics.Record{
			LoadSeconds:     1.52345,
			EvalSeconds:     5.0,
			OutputTokens:    250,
			TokensPerSecond: 50.0,
			ModelRAMMB:      1230.50,
			KVCacheMB:       226.00,
			RuntimeRAMMB:    1456.50,
		},
	},
	{
		name: "print_timings (pre-b4000)",
		output: `llama_print_timings:        load time =     812.11 ms
llama_print_timings:      sample time =      45.20 ms /   128 runs   (    0.35 ms per run,  2831.86 tokens per second)
llama_print_timings: prompt eval time =     180.00 ms /     8 tokens (   22.50 ms per token,    44.44 tokens per second)
llama_print_timings:        eval time =    3200.00 ms /   127 runs   (   25.20 ms per token,    39.69 tokens per second)
llama_print_timings:       total time =    4300.00 ms
`,
		want: metrics.Record{
			LoadSeconds:     0.81211,
			EvalSeconds:     3.2,
			OutputTokens:    127,
			TokensPerSecond: 39.69,
		},
	},
	{
		name: "tok/s rate, model size without KV cache",
		output: `llm_load_print_meta: model size = 3825.70 MB (4.85 BPW)
llama_perf_context_print:        load time =     950.00 ms
llama_perf_context_print:        eval time =    1000.00 ms /    64 runs   (   15.63 ms per token,    64.00 tok/s)
`,
		want: metrics.Record{
			LoadSeconds:     0.95,
			EvalSeconds:     1.0,
			OutputTokens:    64,
			TokensPerSecond: 64.0,
			ModelRAMMB:      3825.70,
		},
	},
	{
		name: "unrecognized format records zeros",
		output: `main: generation complete
timings: generate = 4.2 s, throughput ok
`,
		want: metrics.Record{},
	},
}

type pplCase struct {
	name    string
	output  string
	want    float64
	wantErr bool
}

var pplCases = []pplCase{
	{
		name: "final estimate line",
		output: `perplexity: tokenizing the input ..
perplexity: calculating perplexity over 32 chunks, n_ctx=2048, batch_size=256
[1]4.2213,[2]4.8732,[3]5.0121,[4]5.1098
Final estimate: perplexity = 15.2671 +/- 0.21345
`,
		want: 15.2671,
	},
	{
		name: "aborted run has no scalar",
		output: `perplexity: tokenizing the input ..
llama_kv_cache: KV cache = 226.00 MB
main: interrupted by user
`,
		wantErr: true,
	},
}

// --- Main Application ---

var passResult = color.New(color.FgGreen).SprintFunc()
var failResult = color.New(color.FgRed).SprintFunc()

func main() {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))

	log.Println("Starting parser drift check...")
	log.Printf("Benchmark cases: %d", len(benchCases))
	log.Printf("Perplexity cases: %d", len(pplCases))
	log.Println("----------------------------------------")

	report := map[string]map[string]bool{
		"bench":      {},
		"perplexity": {},
	}
	failures := 0

	for _, tc := range benchCases {
		got := metrics.ParseBenchmarkOutput(tc.output)
		ok := recordsEqual(got, tc.want)
		report["bench"][tc.name] = ok
		if ok {
			log.Print(passResult(fmt.Sprintf("PASS  bench  %s", tc.name)))
			continue
		}
		failures++
		log.Print(failResult(fmt.Sprintf("FAIL  bench  %s", tc.name)))
		pp.Println("got:", got)
		pp.Println("want:", tc.want)
	}

	for _, tc := range pplCases {
		got, err := metrics.ParsePerplexityOutput(tc.output)
		ok := checkPPL(got, err, tc)
		report["perplexity"][tc.name] = ok
		if ok {
			log.Print(passResult(fmt.Sprintf("PASS  ppl    %s", tc.name)))
			continue
		}
		failures++
		log.Print(failResult(fmt.Sprintf("FAIL  ppl    %s", tc.name)))
		pp.Println("got:", got, "err:", err)
	}

	log.Println("----------------------------------------")
	log.Printf("Checks complete: %d failed.", failures)

	saveReport(report, outputReportFile)

	if failures > 0 {
		os.Exit(1)
	}
}

// --- Helper Functions ---

func checkPPL(got float64, err error, tc pplCase) bool {
	if tc.wantErr {
		return errors.Is(err, metrics.ErrPerplexityNotFound)
	}
	return err == nil && floatEq(got, tc.want)
}

func recordsEqual(a, b metrics.Record) bool {
	return floatEq(a.LoadSeconds, b.LoadSeconds) &&
		floatEq(a.EvalSeconds, b.EvalSeconds) &&
		a.OutputTokens == b.OutputTokens &&
		floatEq(a.TokensPerSecond, b.TokensPerSecond) &&
		floatEq(a.ModelRAMMB, b.ModelRAMMB) &&
		floatEq(a.KVCacheMB, b.KVCacheMB) &&
		floatEq(a.RuntimeRAMMB, b.RuntimeRAMMB)
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// saveReport saves the pass/fail map to a JSON file.
func saveReport(report map[string]map[string]bool, filename string) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		log.Fatalf("Failed to create directories for report: %v", err)
	}

	fileData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal final report to JSON: %v", err)
	}
	if err := os.WriteFile(filename, fileData, 0644); err != nil {
		log.Fatalf("Failed to write final report to %s: %v", filename, err)
	}

	log.Printf("Successfully saved report to %s", filename)
}
