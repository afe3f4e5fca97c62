package db

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

// BatchGetItem accepts far more keys, but lookups are kept small.
const maxBatch = 10

type metadataItem struct {
	PK       string            `dynamodbav:"PK"`
	Metadata map[string]string `dynamodbav:"Metadata"`
}

// MetadataStore keeps the header metadata of notation files in a DynamoDB
// table keyed by file name.
type MetadataStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewMetadataStore(client dynamodbiface.DynamoDBAPI, table string) *MetadataStore {
	return &MetadataStore{client: client, table: table}
}

// Connect opens a store against endpoint, e.g. http://localhost:8000 for
// DynamoDB Local.
func Connect(endpoint string, region string, table string) (*MetadataStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewMetadataStore(dynamodb.New(sess), table), nil
}

func (s *MetadataStore) PutMeiMetadata(name string, metadata map[string]string) error {
	item, err := dynamodbattribute.MarshalMap(metadataItem{PK: name, Metadata: metadata})
	if err != nil {
		return errors.Wrap(err, "could not marshal metadata")
	}
	_, err = s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "could not store metadata of %s", name)
	}
	return nil
}

// GetMeiMetadatas looks up metadata by file name. Names without an item are
// left out of the result.
func (s *MetadataStore) GetMeiMetadatas(names []string) (map[string]map[string]string, error) {
	res := make(map[string]map[string]string)

	for start := 0; start < len(names); start += maxBatch {
		end := start + maxBatch
		if end > len(names) {
			end = len(names)
		}

		var keys []map[string]*dynamodb.AttributeValue
		for _, name := range names[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(name)},
			})
		}

		out, err := s.client.BatchGetItem(&dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				s.table: {Keys: keys},
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "error from DynamoDB")
		}

		for _, v := range out.Responses[s.table] {
			var item metadataItem
			if err := dynamodbattribute.UnmarshalMap(v, &item); err != nil {
				return nil, errors.Wrap(err, "could not unmarshal metadata")
			}
			res[item.PK] = item.Metadata
		}
	}

	return res, nil
}
