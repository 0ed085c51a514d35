package constants

import "os"

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetDatasetsConfig() string {
	return os.Getenv("DATASETS_CONFIG")
}

// GetATCDir is where get_atc_score.py lives. Empty disables harmony scoring.
func GetATCDir() string {
	return os.Getenv("ATC_DIR")
}

func GetLogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		return level
	}
	return "info"
}

func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMO_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("DYNAMO_TABLE")
	if table != "" {
		return table
	}
	return "midicomplexity-results"
}

// measures per analysis window
const DefaultSegmentSize = 16

// IOI gaps are rationalized to denominators up to this
const MaxIOIDenominator = 4

const ProgressEvery = 10

const AllResultsFilename = "all_complexity_results.csv"
