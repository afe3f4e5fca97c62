package db

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches int
	fail    bool
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.fail {
		return nil, errors.New("unavailable")
	}
	if f.items == nil {
		f.items = make(map[string]map[string]*dynamodb.AttributeValue)
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	if f.fail {
		return nil, errors.New("unavailable")
	}
	f.batches++
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestPutAndGet(t *testing.T) {
	assert := assert.New(t)

	fake := &fakeDynamo{}
	store := NewMetadataStore(fake, "metadata")

	assert.NoError(store.PutMeiMetadata("a.mei", map[string]string{"composers": "marais"}))
	assert.Equal(aws.String("a.mei"), fake.items["a.mei"]["PK"].S)

	got, err := store.GetMeiMetadatas([]string{"a.mei", "missing.mei"})
	assert.NoError(err)
	assert.Equal(map[string]map[string]string{"a.mei": {"composers": "marais"}}, got)
}

func TestGetBatchesNames(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewMetadataStore(fake, "metadata")

	names := make([]string, 25)
	for i := range names {
		names[i] = string(rune('a'+i)) + ".mei"
	}
	got, err := store.GetMeiMetadatas(names)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 3, fake.batches)

	got, err = store.GetMeiMetadatas(nil)
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 3, fake.batches)
}

func TestErrorsAreReturned(t *testing.T) {
	store := NewMetadataStore(&fakeDynamo{fail: true}, "metadata")
	assert.Error(t, store.PutMeiMetadata("a.mei", nil))
	_, err := store.GetMeiMetadatas([]string{"a.mei"})
	assert.Error(t, err)
}
