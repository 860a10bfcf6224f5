package eigenda

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/Layr-Labs/eigenda/api/grpc/disperser"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/bnb-chain/da-syncer/config"
)

const dialTimeout = 30 * time.Second

var (
	// ErrBlobNotFound is returned when the disperser reports that a blob index does not exist.
	ErrBlobNotFound = errors.New("the blob is not found in disperser")
)

// DisperserClient retrieves blobs from the EigenDA disperser over a single long lived connection.
type DisperserClient struct {
	conn           *grpc.ClientConn
	client         disperser.DisperserClient
	requestTimeout time.Duration
}

// Dial connects to the disperser and blocks until the connection is up.
func Dial(ctx context.Context, cfg *config.DisperserConfig) (*DisperserClient, error) {
	var credential credentials.TransportCredentials
	if cfg.UseTLS {
		credential = credentials.NewTLS(&tls.Config{})
	} else {
		credential = insecure.NewCredentials()
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, cfg.Endpoint,
		grpc.WithTransportCredentials(credential),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to disperser %s, err=%w", cfg.Endpoint, err)
	}
	c := NewDisperserClient(disperser.NewDisperserClient(conn), cfg.GetRequestTimeout())
	c.conn = conn
	return c, nil
}

func NewDisperserClient(client disperser.DisperserClient, requestTimeout time.Duration) *DisperserClient {
	return &DisperserClient{
		client:         client,
		requestTimeout: requestTimeout,
	}
}

// RetrieveBlob returns the padded blob data at blobIndex of the batch.
func (c *DisperserClient) RetrieveBlob(ctx context.Context, batchHeaderHash []byte, blobIndex uint32) ([]byte, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}
	reply, err := c.client.RetrieveBlob(ctx, &disperser.RetrieveBlobRequest{
		BatchHeaderHash: batchHeaderHash,
		BlobIndex:       blobIndex,
	})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound, codes.OutOfRange, codes.InvalidArgument:
			return nil, fmt.Errorf("%w: index=%d, %s", ErrBlobNotFound, blobIndex, status.Convert(err).Message())
		}
		return nil, err
	}
	return reply.GetData(), nil
}

func (c *DisperserClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
