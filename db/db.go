package db

import (
	"github.com/jsphweid/midicomplexity/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// DynamoDB caps BatchWriteItem at 25 requests.
const maxBatch = 25

const maxAttempts = 3

type Sink struct {
	Client dynamodbiface.DynamoDBAPI
	Table  string
}

type item struct {
	PK       string             `dynamodbav:"PK"`
	RunID    string             `dynamodbav:"RunID"`
	Dataset  string             `dynamodbav:"Dataset"`
	Filename string             `dynamodbav:"Filename"`
	FilePath string             `dynamodbav:"FilePath"`
	Metrics  map[string]float64 `dynamodbav:"Metrics"`
	ATCScore *float64           `dynamodbav:"ATCScore,omitempty"`
	Error    string             `dynamodbav:"Error,omitempty"`
}

// NewSink talks to endpoint when set (e.g. DynamoDB local), otherwise to
// the default AWS configuration.
func NewSink(endpoint, table string) (*Sink, error) {
	cfg := &aws.Config{}
	if endpoint != "" {
		cfg.Region = aws.String("localhost")
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return &Sink{Client: dynamodb.New(sess), Table: table}, nil
}

func Key(rec model.MetricsRecord) string {
	return rec.Dataset + "#" + rec.Filename
}

func toItem(runID string, rec model.MetricsRecord) item {
	it := item{
		PK:       Key(rec),
		RunID:    runID,
		Dataset:  rec.Dataset,
		Filename: rec.Filename,
		FilePath: rec.FilePath,
		Metrics:  map[string]float64{"processing_time": rec.ProcessingTime},
		ATCScore: rec.ATCScore,
		Error:    rec.Error,
	}
	for _, m := range rec.Metrics() {
		it.Metrics[m.Name] = *m.Value
	}
	return it
}

// PutRecords writes records in batches of 25, resubmitting unprocessed
// items a few times before giving up.
func (s *Sink) PutRecords(runID string, records []model.MetricsRecord) error {
	for start := 0; start < len(records); start += maxBatch {
		end := start + maxBatch
		if end > len(records) {
			end = len(records)
		}

		var writes []*dynamodb.WriteRequest
		for _, rec := range records[start:end] {
			av, err := dynamodbattribute.MarshalMap(toItem(runID, rec))
			if err != nil {
				return errors.Wrapf(err, "marshalling %s", rec.FilePath)
			}
			writes = append(writes, &dynamodb.WriteRequest{PutRequest: &dynamodb.PutRequest{Item: av}})
		}

		pending := map[string][]*dynamodb.WriteRequest{s.Table: writes}
		for attempt := 1; len(pending) > 0; attempt++ {
			if attempt > maxAttempts {
				return errors.Errorf("DynamoDB left %d items unprocessed", len(pending[s.Table]))
			}
			out, err := s.Client.BatchWriteItem(&dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return errors.Wrap(err, "error from DynamoDB")
			}
			pending = out.UnprocessedItems
		}
	}
	logrus.WithFields(logrus.Fields{"run": runID, "table": s.Table, "records": len(records)}).Info("Stored results")
	return nil
}
