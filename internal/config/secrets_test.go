package config

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	params  map[string]string
	batches [][]string
	err     error
}

func (f *fakeSSM) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.batches = append(f.batches, in.Names)
	if f.err != nil {
		return nil, f.err
	}
	if !aws.ToBool(in.WithDecryption) {
		return nil, errors.New("decryption not requested")
	}
	out := &ssm.GetParametersOutput{}
	for _, name := range in.Names {
		if v, ok := f.params[name]; ok {
			out.Parameters = append(out.Parameters, ssmtypes.Parameter{Name: aws.String(name), Value: aws.String(v)})
		} else {
			out.InvalidParameters = append(out.InvalidParameters, name)
		}
	}
	return out, nil
}

func TestSSMProvider_Batches(t *testing.T) {
	fake := &fakeSSM{params: map[string]string{}}
	var keys []string
	for i := range 23 {
		k := fmt.Sprintf("/prod/pricing/p%02d", i)
		keys = append(keys, k)
		fake.params[k] = fmt.Sprintf("v%d", i)
	}
	p := &SSMProvider{client: fake}

	got, err := p.GetParametersBatch(context.Background(), keys)
	require.NoError(t, err)

	assert.Len(t, got, 23)
	assert.Equal(t, "v22", got["/prod/pricing/p22"])
	require.Len(t, fake.batches, 3)
	assert.Len(t, fake.batches[0], 10)
	assert.Len(t, fake.batches[2], 3)
}

func TestSSMProvider_OmitsUnknown(t *testing.T) {
	p := &SSMProvider{client: &fakeSSM{params: map[string]string{"/a": "1"}}}

	got, err := p.GetParametersBatch(context.Background(), []string{"/a", "/b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"/a": "1"}, got)
}

func TestSSMProvider_Errors(t *testing.T) {
	boom := errors.New("access denied")
	p := &SSMProvider{client: &fakeSSM{err: boom}}
	_, err := p.GetParametersBatch(context.Background(), []string{"/a"})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p = &SSMProvider{client: &fakeSSM{}}
	_, err = p.GetParametersBatch(ctx, []string{"/a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSSMProvider_EmptyKeys(t *testing.T) {
	// No client is built for an empty request.
	p := NewSSMProvider("us-east-1", "")
	got, err := p.GetParametersBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, p.client)
}

func TestEnvVarProvider(t *testing.T) {
	t.Setenv("PRICING_TEST_SECRET", "s3cret")

	got, err := NewEnvVarProvider().GetParametersBatch(context.Background(), []string{"PRICING_TEST_SECRET", "PRICING_TEST_UNSET"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PRICING_TEST_SECRET": "s3cret"}, got)
}

func TestLoadAWSConfig_Endpoint(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg, err := LoadAWSConfig(context.Background(), AWSConfig{Region: "eu-west-1", EndpointURL: "http://localhost:4566"})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "http://localhost:4566", aws.ToString(cfg.BaseEndpoint))

	cfg, err = LoadAWSConfig(context.Background(), AWSConfig{Region: "eu-west-1"})
	require.NoError(t, err)
	assert.Nil(t, cfg.BaseEndpoint)
}
