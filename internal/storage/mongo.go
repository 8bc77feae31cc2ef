package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"pigeon/internal/domain"
)

// MongoConfig selects the MongoDB deployment and database.
type MongoConfig struct {
	URI      string
	Database string
}

// Mongo is the MongoDB Store backend. Collections: users, public_keys,
// private_keys, conversations, messages.
type Mongo struct {
	cli           *mongo.Client
	users         *mongo.Collection
	publicKeys    *mongo.Collection
	privateKeys   *mongo.Collection
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// Documents carry the extra fields the indexes need.
type publicKeyDoc struct {
	UserID domain.UserID `bson:"_id"`
	Key    string        `bson:"key"`
}

type privateKeyDoc struct {
	UserID     domain.UserID `bson:"_id"`
	EncodedKey string        `bson:"encoded_key"`
	Recipe     bson.Raw      `bson:"recipe"`
}

type conversationDoc struct {
	ID        domain.ConversationID `bson:"_id"`
	CreatedAt time.Time             `bson:"created_at"`
	UserOne   domain.UserID         `bson:"user_one"`
	UserTwo   domain.UserID         `bson:"user_two"`
	Pair      string                `bson:"pair"`
}

type messageDoc struct {
	ID             domain.MessageID      `bson:"_id"`
	CreatedAt      time.Time             `bson:"created_at"`
	Sender         domain.UserID         `bson:"sender"`
	Contents       string                `bson:"contents"`
	ConversationID domain.ConversationID `bson:"conversation_id"`
}

// OpenMongo connects, pings and ensures the indexes.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("storage: mongo uri required")
	}
	if cfg.Database == "" {
		return nil, errors.New("storage: mongo database required")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	cli, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := cli.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := cli.Database(cfg.Database)
	s := &Mongo{
		cli:           cli,
		users:         db.Collection("users"),
		publicKeys:    db.Collection("public_keys"),
		privateKeys:   db.Collection("private_keys"),
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}

	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.conversations, mongo.IndexModel{Keys: bson.D{{Key: "pair", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.conversations, mongo.IndexModel{Keys: bson.D{{Key: "user_one", Value: 1}}}},
		{s.conversations, mongo.IndexModel{Keys: bson.D{{Key: "user_two", Value: 1}}}},
		{s.messages, mongo.IndexModel{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}}},
	}
	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
			_ = cli.Disconnect(context.Background())
			return nil, fmt.Errorf("create index on %s: %w", ix.coll.Name(), err)
		}
	}
	return s, nil
}

func (s *Mongo) Close() error { return s.cli.Disconnect(context.Background()) }

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// ---------- users ----------

func (s *Mongo) CreateUser(ctx context.Context, u User) error {
	_, err := s.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("email %s: %w", u.Email, ErrConflict)
	}
	return err
}

func (s *Mongo) UserByEmail(ctx context.Context, email domain.Email) (User, error) {
	var u User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, notFound(err)
}

func (s *Mongo) UserByID(ctx context.Context, id domain.UserID) (User, error) {
	var u User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, notFound(err)
}

// ---------- keys ----------

var upsert = options.Replace().SetUpsert(true)

func (s *Mongo) PutPublicKey(ctx context.Context, rec domain.PublicKeyRecord) error {
	doc := publicKeyDoc{UserID: rec.UserID, Key: rec.Key}
	_, err := s.publicKeys.ReplaceOne(ctx, bson.M{"_id": rec.UserID}, doc, upsert)
	return err
}

func (s *Mongo) PublicKey(ctx context.Context, user domain.UserID) (domain.PublicKeyRecord, error) {
	var doc publicKeyDoc
	if err := s.publicKeys.FindOne(ctx, bson.M{"_id": user}).Decode(&doc); err != nil {
		return domain.PublicKeyRecord{}, notFound(err)
	}
	return domain.PublicKeyRecord{UserID: doc.UserID, Key: doc.Key}, nil
}

func (s *Mongo) PutPrivateKey(ctx context.Context, rec domain.PrivateKeyRecord) error {
	recipe, err := bson.Marshal(rec.Recipe)
	if err != nil {
		return err
	}
	doc := privateKeyDoc{UserID: rec.UserID, EncodedKey: rec.EncodedKey, Recipe: recipe}
	_, err = s.privateKeys.ReplaceOne(ctx, bson.M{"_id": rec.UserID}, doc, upsert)
	return err
}

func (s *Mongo) PrivateKey(ctx context.Context, user domain.UserID) (domain.PrivateKeyRecord, error) {
	var doc privateKeyDoc
	if err := s.privateKeys.FindOne(ctx, bson.M{"_id": user}).Decode(&doc); err != nil {
		return domain.PrivateKeyRecord{}, notFound(err)
	}
	rec := domain.PrivateKeyRecord{UserID: doc.UserID, EncodedKey: doc.EncodedKey}
	if err := bson.Unmarshal(doc.Recipe, &rec.Recipe); err != nil {
		return domain.PrivateKeyRecord{}, fmt.Errorf("decode recipe: %w", err)
	}
	return rec, nil
}

// ---------- conversations ----------

func toConversation(d conversationDoc) domain.ConversationEntry {
	return domain.ConversationEntry{ID: d.ID, CreatedAt: d.CreatedAt, UserOne: d.UserOne, UserTwo: d.UserTwo}
}

func (s *Mongo) CreateConversation(ctx context.Context, c domain.ConversationEntry) error {
	doc := conversationDoc{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UserOne:   c.UserOne,
		UserTwo:   c.UserTwo,
		Pair:      pairKey(c.UserOne, c.UserTwo),
	}
	_, err := s.conversations.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("conversation %s: %w", doc.Pair, ErrConflict)
	}
	return err
}

func (s *Mongo) Conversation(ctx context.Context, id domain.ConversationID) (domain.ConversationEntry, error) {
	var doc conversationDoc
	if err := s.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return domain.ConversationEntry{}, notFound(err)
	}
	return toConversation(doc), nil
}

func (s *Mongo) ConversationBetween(ctx context.Context, a, b domain.UserID) (domain.ConversationEntry, error) {
	var doc conversationDoc
	if err := s.conversations.FindOne(ctx, bson.M{"pair": pairKey(a, b)}).Decode(&doc); err != nil {
		return domain.ConversationEntry{}, notFound(err)
	}
	return toConversation(doc), nil
}

func (s *Mongo) ConversationsFor(ctx context.Context, u domain.UserID) ([]domain.ConversationEntry, error) {
	filter := bson.M{"$or": bson.A{bson.M{"user_one": u}, bson.M{"user_two": u}}}
	cur, err := s.conversations.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []conversationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.ConversationEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, toConversation(d))
	}
	return out, nil
}

// ---------- messages ----------

func (s *Mongo) AppendMessage(ctx context.Context, m domain.MessageEntry) error {
	if _, err := s.Conversation(ctx, m.ConversationID); err != nil {
		return fmt.Errorf("conversation %s: %w", m.ConversationID, err)
	}
	_, err := s.messages.InsertOne(ctx, messageDoc(m))
	return err
}

func (s *Mongo) Messages(ctx context.Context, conv domain.ConversationID) ([]domain.MessageEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.messages.Find(ctx, bson.M{"conversation_id": conv}, opts)
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.MessageEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.MessageEntry(d))
	}
	return out, nil
}

var _ Store = (*Mongo)(nil)
