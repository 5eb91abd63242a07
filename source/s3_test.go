package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	input   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	body, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3State(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"recipes/bread.json": `{"name": "Bread", "ingredients": ["500 g flour"]}`,
	}}

	t.Run("existing object", func(t *testing.T) {
		data, err := NewS3State(client, "recipes", "bread.json").Load(context.Background())
		require.NoError(t, err)
		assert.Contains(t, string(data), "Bread")
		assert.Equal(t, "recipes", aws.ToString(client.input.Bucket))
		assert.Equal(t, "bread.json", aws.ToString(client.input.Key))
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := NewS3State(client, "recipes", "cake.json").Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3://recipes/cake.json")
	})

	t.Run("through LoadRecipes", func(t *testing.T) {
		recipes, err := LoadRecipes(context.Background(), NewS3State(client, "recipes", "bread.json"))
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, []string{"500 g flour"}, recipes[0].Ingredients)
	})
}
