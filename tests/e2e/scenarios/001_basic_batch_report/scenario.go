package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"weblog-analytics/internal/app"
	"weblog-analytics/internal/reports"
	"weblog-analytics/internal/shared/configs"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the scenario's expected report contents.
const (
	totalEntries          = 64000 // Total number of log lines to generate (headers excluded)
	bucketCount           = 64    // 4 minutes x 4 paths x 4 status codes
	topPagesN             = 3     // Must match reports.top_pages_n in the generated config
	suspiciousMinFailures = 3     // Must match reports.suspicious_min_failures in the generated config

	headerLine = "clientAddress,timestamp,path,statusCode,userAgent"
)

var (
	minutes     = []string{"18:03", "18:04", "18:05", "18:06"}
	paths       = []string{"/", "/about", "/careers", "/contact"}
	statusCodes = []int{200, 301, 404, 500}
	userAgents  = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"curl/7.88.1",
	}
	clientAddresses = []string{
		"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4",
		"192.168.1.10", "192.168.1.11", "192.168.1.12", "192.168.1.13",
	}

	// Must match reports.suspicious_status_codes in the generated config.
	suspiciousStatuses = map[int]bool{404: true, 500: true}
)

// ### End - fixed configs

type entry struct {
	bucket int
	round  int
}

// main runs the e2e scenario: 001_basic_batch_report
//
// This scenario tests the end-to-end flow of one analysis job: raw access log
// objects are generated into a local blob-store directory, the job ingests and
// partitions them, runs the full query set, and writes the report artifacts
// back to the same store.
//
// What it tests:
//   - Delimited line parsing with one header line per source object
//   - Parallel ingestion of multiple source objects into the partitioned store
//   - The full report set: total_requests, status_code_counts, top_pages,
//     user_agent_counts, suspicious_ips, traffic_trends
//   - Partition exports when persist_partitions is enabled
//   - Report artifact formatting (padded tabular text)
//
// Expected results:
//   - 64,000 lines are ingested across 4 source objects with zero rejects
//   - Every status code, path, user agent and minute bucket counts exactly 16,000 requests
//   - Four client addresses cross the suspicious failure threshold with 8,000 failures each
//   - Six report artifacts plus four partition exports exist under the output prefixes
func main() {
	// these configs can be changed to run the scenario
	dateUTC := "2025-12-28"               // Date used for generated log line timestamps (UTC)
	sourceCount := 4                      // Number of source objects the lines are spread across
	fileStorageDir := ".tmp/file-storage" // File storage directory path relative to project root
	wantCleanFileStorage := true          // If true, clean up file storage directory before running scenario

	// Validate the lines spread evenly across buckets and sources
	if totalEntries%bucketCount != 0 {
		fmt.Fprintf(os.Stderr, "ERROR: TOTAL_ENTRIES (%d) must be divisible by BUCKET_COUNT (%d)\n", totalEntries, bucketCount)
		os.Exit(1)
	}
	if totalEntries%sourceCount != 0 {
		fmt.Fprintf(os.Stderr, "ERROR: TOTAL_ENTRIES (%d) must be divisible by SOURCE_COUNT (%d)\n", totalEntries, sourceCount)
		os.Exit(1)
	}

	// Get project root directory by looking for go.mod file
	// Start from current working directory and walk up until we find go.mod
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}

	// Walk up the directory tree to find go.mod
	for i := 0; i < 10; i++ {
		goModPath := filepath.Join(projectRoot, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			break
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			// Reached filesystem root without finding go.mod
			fmt.Fprintf(os.Stderr, "ERROR: Could not find go.mod file. Please run from project root\n")
			os.Exit(1)
		}
		projectRoot = parent
	}

	// Resolve file storage directory relative to project root
	storagePath := filepath.Join(projectRoot, fileStorageDir)
	storagePath, err = filepath.Abs(storagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to resolve file storage path: %v\n", err)
		os.Exit(1)
	}

	// Clean up file storage if requested
	if wantCleanFileStorage {
		fmt.Printf("Cleaning file storage directory: %s\n", storagePath)
		if err := os.RemoveAll(storagePath); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Failed to clean file storage directory: %v\n", err)
		} else {
			fmt.Printf("File storage directory cleaned\n")
		}
		fmt.Println()
	}

	fmt.Println("Starting e2e scenario: 001_basic_batch_report")
	fmt.Printf("DATE_UTC: %s\n", dateUTC)
	fmt.Printf("SOURCE_COUNT: %d\n", sourceCount)
	fmt.Printf("FILE_STORAGE_DIR: %s\n", fileStorageDir)
	fmt.Printf("FILE_STORAGE_PATH: %s\n", storagePath)
	fmt.Printf("WANT_CLEAN_FILE_STORAGE: %v\n", wantCleanFileStorage)
	fmt.Printf("TOTAL_ENTRIES: %d\n", totalEntries)
	fmt.Println()

	// Generate all entries
	fmt.Printf("Generating all %d entries...\n", totalEntries)
	entries := generateAllEntries()
	fmt.Printf("Generated %d entries\n", len(entries))
	fmt.Println()

	// Write source objects in parallel, one writer per object
	fmt.Printf("Writing %d source objects under input/...\n", sourceCount)
	var wg sync.WaitGroup
	writeErrs := make([]error, sourceCount)
	for s := 0; s < sourceCount; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			writeErrs[s] = writeSourceObject(storagePath, dateUTC, entries, s, sourceCount)
		}(s)
	}
	wg.Wait()
	for _, writeErr := range writeErrs {
		if writeErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to write source object: %v\n", writeErr)
			os.Exit(1)
		}
	}
	fmt.Printf("Wrote %d source objects\n", sourceCount)
	fmt.Println()

	// Write the job config pointing at the generated storage directory
	configPath := filepath.Join(projectRoot, ".tmp", "001_basic_batch_report.yml")
	if err := writeConfigFile(configPath, storagePath); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to write config file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote job config: %s\n", configPath)

	// Run the full job in-process
	fmt.Println("Running analysis job...")
	config, err := configs.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load config: %v\n", err)
		os.Exit(1)
	}
	application, err := app.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	started := time.Now()
	summary, err := application.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Job failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Job %s completed in %s\n", summary.RunID, time.Since(started).Round(time.Millisecond))
	fmt.Println()

	// Verify the run summary and every artifact the job wrote
	fmt.Println("Verifying results...")
	failures := 0
	failures += verifyValue("ingest.sources", summary.Ingest.Sources, sourceCount)
	failures += verifyValue("ingest.headers_skipped", summary.Ingest.HeadersSkipped, sourceCount)
	failures += verifyValue("ingest.lines", summary.Ingest.Lines, int64(totalEntries+sourceCount))
	failures += verifyValue("ingest.ingested", summary.Ingest.Ingested, int64(totalEntries))
	failures += verifyValue("ingest.rejected", summary.Ingest.Rejected, int64(0))
	failures += verifyValue("reports_failed", len(summary.ReportsFailed), 0)

	expected := expectedTables(dateUTC)
	reportNames := []string{
		"total_requests", "status_code_counts", "top_pages",
		"user_agent_counts", "suspicious_ips", "traffic_trends",
	}
	failures += verifyValue("reports_written", fmt.Sprint(summary.ReportsWritten), fmt.Sprint(reportNames))
	for _, name := range reportNames {
		text, err := readArtifact(storagePath, "reports/"+name+".txt")
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL report %s: %v\n", name, err)
			failures++
			continue
		}
		table, err := reports.ParseTable(text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL report %s: %v\n", name, err)
			failures++
			continue
		}
		failures += verifyTable("report "+name, table, expected[name])
	}

	failures += verifyPartitions(storagePath, summary.PartitionsWritten)

	// Print statistics
	fmt.Println()
	fmt.Println("=== Statistics ===")
	fmt.Printf("Run ID: %s\n", summary.RunID)
	fmt.Printf("Sources ingested: %d\n", summary.Ingest.Sources)
	fmt.Printf("Lines read: %d\n", summary.Ingest.Lines)
	fmt.Printf("Records ingested: %d\n", summary.Ingest.Ingested)
	fmt.Printf("Records rejected: %d\n", summary.Ingest.Rejected)
	fmt.Printf("Reports written: %d\n", len(summary.ReportsWritten))
	fmt.Printf("Partitions written: %d\n", len(summary.PartitionsWritten))
	fmt.Printf("Checks failed: %d\n", failures)

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %d checks failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("Scenario completed successfully")
}

func generateAllEntries() []entry {
	entries := make([]entry, 0, totalEntries)
	bucket := 0
	round := 0

	for count := 0; count < totalEntries; count++ {
		entries = append(entries, entry{bucket: bucket, round: round})

		bucket++
		if bucket >= bucketCount {
			bucket = 0
			round++
		}
	}

	return entries
}

// formatLine renders one delimited log line for an entry. Each bucket pins a
// unique (minute, path, status) combination; the user agent follows the
// status index and the client address cycles over 8 values, so every report
// dimension has an exact closed-form count.
func formatLine(e entry, dateUTC string) string {
	minuteIndex := e.bucket / 16
	combo := e.bucket % 16
	pathIndex := combo / 4
	statusIndex := combo % 4

	minute := minutes[minuteIndex]
	path := paths[pathIndex]
	status := statusCodes[statusIndex]
	ua := userAgents[statusIndex]
	client := clientAddresses[e.bucket%len(clientAddresses)]

	seconds := e.round % 60
	timestamp := fmt.Sprintf("%s %s:%02d", dateUTC, minute, seconds)

	return fmt.Sprintf("%s,%s,%s,%d,%s", client, timestamp, path, status, ua)
}

// writeSourceObject writes one input object containing a header line and
// every sourceCount-th entry, straight into the local blob-store layout.
func writeSourceObject(storagePath, dateUTC string, entries []entry, sourceIndex, sourceCount int) error {
	var buf bytes.Buffer
	buf.WriteString(headerLine)
	buf.WriteByte('\n')
	for i := sourceIndex; i < len(entries); i += sourceCount {
		buf.WriteString(formatLine(entries[i], dateUTC))
		buf.WriteByte('\n')
	}

	dir := filepath.Join(storagePath, "input")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create input directory: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("access-%02d.log", sourceIndex))
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func writeConfigFile(configPath, storagePath string) error {
	configTemplate := `log:
  level: warn

file_storage:
  backend: local
  root_dir: %q

input:
  prefix: input/
  field_delimiter: ","

output:
  prefix: reports/
  persist_partitions: true
  partitions_prefix: partitions/

ingest:
  workers: 4

reports:
  top_pages_n: %d
  suspicious_status_codes: [404, 500]
  suspicious_min_failures: %d
  time_bucket_precision: 16
  normalize_user_agents: false

ops:
  enabled: false
`
	content := fmt.Sprintf(configTemplate, storagePath, topPagesN, suspiciousMinFailures)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(content), 0o644)
}

// expectedTables derives every report's exact content from the generation
// arithmetic: all 64 buckets receive the same number of entries, so each
// 4-way dimension counts totalEntries/4 and ties rank ascending by key.
func expectedTables(dateUTC string) map[string][][]string {
	perGroup := strconv.Itoa(totalEntries / 4)

	statusTable := [][]string{{"status_code", "request_count"}}
	for _, status := range statusCodes {
		statusTable = append(statusTable, []string{strconv.Itoa(status), perGroup})
	}

	sortedPaths := append([]string(nil), paths...)
	sort.Strings(sortedPaths)
	pagesTable := [][]string{{"path", "request_count"}}
	for _, path := range sortedPaths[:topPagesN] {
		pagesTable = append(pagesTable, []string{path, perGroup})
	}

	sortedUAs := append([]string(nil), userAgents...)
	sort.Strings(sortedUAs)
	uaTable := [][]string{{"user_agent", "request_count"}}
	for _, ua := range sortedUAs {
		uaTable = append(uaTable, []string{ua, perGroup})
	}

	suspiciousTable := [][]string{{"client_address", "failure_count"}}
	suspiciousTable = append(suspiciousTable, expectedSuspiciousRows()...)

	trendsTable := [][]string{{"time_bucket", "request_count"}}
	for _, minute := range minutes {
		trendsTable = append(trendsTable, []string{dateUTC + " " + minute, perGroup})
	}

	return map[string][][]string{
		"total_requests":     {{"total_requests"}, {strconv.Itoa(totalEntries)}},
		"status_code_counts": statusTable,
		"top_pages":          pagesTable,
		"user_agent_counts":  uaTable,
		"suspicious_ips":     suspiciousTable,
		"traffic_trends":     trendsTable,
	}
}

// expectedSuspiciousRows tallies failing entries per client address over one
// full bucket cycle, then ranks them the way the report does: count
// descending, address ascending on ties.
func expectedSuspiciousRows() [][]string {
	perBucket := totalEntries / bucketCount
	failureCounts := map[string]int{}
	for bucket := 0; bucket < bucketCount; bucket++ {
		status := statusCodes[(bucket%16)%4]
		if !suspiciousStatuses[status] {
			continue
		}
		failureCounts[clientAddresses[bucket%len(clientAddresses)]] += perBucket
	}

	addresses := make([]string, 0, len(failureCounts))
	for address, count := range failureCounts {
		if count > suspiciousMinFailures {
			addresses = append(addresses, address)
		}
	}
	sort.Slice(addresses, func(i, j int) bool {
		if failureCounts[addresses[i]] != failureCounts[addresses[j]] {
			return failureCounts[addresses[i]] > failureCounts[addresses[j]]
		}
		return addresses[i] < addresses[j]
	})

	rows := make([][]string, 0, len(addresses))
	for _, address := range addresses {
		rows = append(rows, []string{address, strconv.Itoa(failureCounts[address])})
	}
	return rows
}

func readArtifact(storagePath, key string) (string, error) {
	data, err := os.ReadFile(filepath.Join(storagePath, filepath.FromSlash(key)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func verifyValue(name string, got, want any) int {
	if fmt.Sprint(got) == fmt.Sprint(want) {
		fmt.Printf("OK   %s = %v\n", name, got)
		return 0
	}
	fmt.Fprintf(os.Stderr, "FAIL %s: got %v, want %v\n", name, got, want)
	return 1
}

func verifyTable(name string, got, want [][]string) int {
	if len(got) != len(want) {
		fmt.Fprintf(os.Stderr, "FAIL %s: got %d lines, want %d\n", name, len(got), len(want))
		return 1
	}
	mismatches := 0
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			fmt.Fprintf(os.Stderr, "FAIL %s line %d: got %v, want %v\n", name, i+1, got[i], want[i])
			mismatches++
		}
	}
	if mismatches == 0 {
		fmt.Printf("OK   %s (%d rows)\n", name, len(got)-1)
	}
	return mismatches
}

// verifyPartitions checks the partition export keys and that each exported
// object carries exactly the lines of its status code, one per record with
// the status column dropped.
func verifyPartitions(storagePath string, partitionsWritten []string) int {
	wantKeys := make([]string, 0, len(statusCodes))
	for _, status := range statusCodes {
		wantKeys = append(wantKeys, fmt.Sprintf("partitions/status=%d/records.csv", status))
	}

	failures := verifyValue("partitions_written", fmt.Sprint(partitionsWritten), fmt.Sprint(wantKeys))
	for _, key := range wantKeys {
		content, err := readArtifact(storagePath, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL partition %s: %v\n", key, err)
			failures++
			continue
		}
		lineCount := bytes.Count([]byte(content), []byte("\n"))
		failures += verifyValue("partition "+key+" lines", lineCount, totalEntries/len(statusCodes))
	}
	return failures
}
