package config

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SecretProvider resolves a batch of parameter paths to plaintext values.
// Paths that do not exist are left out of the result.
type SecretProvider interface {
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}

// EnvVarProvider treats each key as an environment variable name.
type EnvVarProvider struct{}

func NewEnvVarProvider() *EnvVarProvider {
	return &EnvVarProvider{}
}

func (EnvVarProvider) GetParametersBatch(_ context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			out[k] = v
		}
	}
	return out, nil
}

// GetParameters accepts at most this many names per call.
const ssmBatchSize = 10

type ssmClient interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// SSMProvider reads SecureString parameters from SSM Parameter Store.
type SSMProvider struct {
	region   string
	endpoint string
	client   ssmClient
}

// NewSSMProvider creates a provider for region. The client is created on
// first use; endpoint may be empty.
func NewSSMProvider(region, endpoint string) *SSMProvider {
	return &SSMProvider{region: region, endpoint: endpoint}
}

func (p *SSMProvider) GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	if p.client == nil {
		cfg, err := LoadAWSConfig(ctx, AWSConfig{Region: p.region, EndpointURL: p.endpoint})
		if err != nil {
			return nil, err
		}
		p.client = ssm.NewFromConfig(cfg)
	}

	for start := 0; start < len(keys); start += ssmBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resolving SSM parameters: %w", err)
		}
		batch := keys[start:min(start+ssmBatchSize, len(keys))]

		resp, err := p.client.GetParameters(ctx, &ssm.GetParametersInput{
			Names:          batch,
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("ssm GetParameters: %w", err)
		}
		for _, param := range resp.Parameters {
			if param.Name != nil && param.Value != nil {
				out[*param.Name] = *param.Value
			}
		}
	}
	return out, nil
}

// LoadAWSConfig loads the default AWS credential chain for the configured
// region. A non-empty EndpointURL is applied to every client built from the
// result.
func LoadAWSConfig(ctx context.Context, c AWSConfig) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config (region=%s): %w", c.Region, err)
	}
	if c.EndpointURL != "" {
		cfg.BaseEndpoint = aws.String(c.EndpointURL)
	}
	return cfg, nil
}
