package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// Default topics for KafkaPublisher.
const (
	DefaultVerticesTopic = "walletgraph.vertices"
	DefaultEdgesTopic    = "walletgraph.edges"
)

// KafkaOptions configures a KafkaPublisher.
type KafkaOptions struct {
	Brokers       []string
	VerticesTopic string
	EdgesTopic    string
	Logger        *log.Logger
}

// Vertex is the message published for an address.
type Vertex struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}

// EdgeMessage is the message published for an edge.
type EdgeMessage struct {
	ID          string `json:"id"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	TxID        string `json:"txid,omitempty"`
}

// KafkaPublisher publishes graphs to Kafka.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	opts     KafkaOptions
}

// NewKafkaPublisher connects a synchronous producer to the brokers.
func NewKafkaPublisher(opts KafkaOptions) (*KafkaPublisher, error) {
	if len(opts.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	producer, err := sarama.NewSyncProducer(opts.Brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, opts), nil
}

// ProducerConfig is the sarama configuration used by NewKafkaPublisher.
func ProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "walletgraph"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	return cfg
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(p sarama.SyncProducer, opts KafkaOptions) *KafkaPublisher {
	if opts.VerticesTopic == "" {
		opts.VerticesTopic = DefaultVerticesTopic
	}
	if opts.EdgesTopic == "" {
		opts.EdgesTopic = DefaultEdgesTopic
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &KafkaPublisher{producer: p, opts: opts}
}

// Write publishes one vertex message per node and one edge message per edge.
func (k *KafkaPublisher) Write(ctx context.Context, g graph.Graph) (Stats, error) {
	msgs, err := k.messages(g)
	if err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	if len(msgs) > 0 {
		if err := k.producer.SendMessages(msgs); err != nil {
			return Stats{}, fmt.Errorf("publish: %w", err)
		}
	}

	st := Stats{Nodes: len(g.Nodes), Edges: len(g.Edges)}
	k.opts.Logger.Info("published to kafka", "vertices", st.Nodes, "edges", st.Edges,
		"topics", []string{k.opts.VerticesTopic, k.opts.EdgesTopic})
	return st, nil
}

func (k *KafkaPublisher) messages(g graph.Graph) ([]*sarama.ProducerMessage, error) {
	msgs := make([]*sarama.ProducerMessage, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		data, err := json.Marshal(Vertex{Address: n.ID, Label: n.Label})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: k.opts.VerticesTopic,
			Key:   sarama.StringEncoder(n.ID),
			Value: sarama.ByteEncoder(data),
		})
	}
	for _, e := range g.Edges {
		data, err := json.Marshal(EdgeMessage{ID: e.ID, FromAddress: e.Source, ToAddress: e.Target, TxID: e.TxID})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: k.opts.EdgesTopic,
			Key:   sarama.StringEncoder(e.ID),
			Value: sarama.ByteEncoder(data),
		})
	}
	return msgs, nil
}

// Close closes the producer.
func (k *KafkaPublisher) Close(context.Context) error {
	return k.producer.Close()
}

var _ Target = (*KafkaPublisher)(nil)
