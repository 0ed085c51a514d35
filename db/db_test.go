package db

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/midicomplexity/model"
	"github.com/stretchr/testify/assert"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	batches     [][]*dynamodb.WriteRequest
	unprocessed int
}

func (f *fakeDynamo) BatchWriteItem(in *dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error) {
	for _, writes := range in.RequestItems {
		f.batches = append(f.batches, writes)
		if f.unprocessed > 0 {
			f.unprocessed--
			return &dynamodb.BatchWriteItemOutput{UnprocessedItems: map[string][]*dynamodb.WriteRequest{"t": writes[:1]}}, nil
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func records(n int) []model.MetricsRecord {
	res := make([]model.MetricsRecord, n)
	for i := range res {
		res[i] = model.MetricsRecord{Filename: "f.mid", Dataset: "d", PitchClassEntropy: float64(i)}
	}
	return res
}

func TestPutRecordsChunks(t *testing.T) {
	fake := &fakeDynamo{}
	sink := &Sink{Client: fake, Table: "t"}

	assert.NoError(t, sink.PutRecords("run-1", records(60)))

	assert := assert.New(t)
	assert.Len(fake.batches, 3)
	assert.Len(fake.batches[0], 25)
	assert.Len(fake.batches[2], 10)

	item := fake.batches[0][3].PutRequest.Item
	assert.Equal("d#f.mid", aws.StringValue(item["PK"].S))
	assert.Equal("run-1", aws.StringValue(item["RunID"].S))
	assert.Equal("3", aws.StringValue(item["Metrics"].M["Hpc_piece"].N))
	assert.NotContains(item, "ATCScore")
	assert.NotContains(item, "Error")
}

func TestPutRecordsRetriesUnprocessed(t *testing.T) {
	fake := &fakeDynamo{unprocessed: 1}
	sink := &Sink{Client: fake, Table: "t"}

	assert.NoError(t, sink.PutRecords("run", records(2)))
	assert.Len(t, fake.batches, 2)
	assert.Len(t, fake.batches[1], 1)
}

func TestPutRecordsGivesUp(t *testing.T) {
	fake := &fakeDynamo{unprocessed: 10}
	sink := &Sink{Client: fake, Table: "t"}

	assert.Error(t, sink.PutRecords("run", records(1)))
	assert.Len(t, fake.batches, maxAttempts)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "maestro#a.mid", Key(model.MetricsRecord{Dataset: "maestro", Filename: "a.mid"}))
}
