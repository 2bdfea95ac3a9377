package mongodb

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/internal/domain/repository"
)

const emailIndexName = "members_email_key"

type MemberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database, collection string) *MemberRepository {
	return &MemberRepository{coll: db.Collection(collection)}
}

// EnsureIndexes creates the unique email index backing the duplicate check.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	return err
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*entity.Member, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MemberRepository) FindByNameContainingIgnoreCase(ctx context.Context, fragment string) ([]entity.Member, error) {
	return r.find(ctx, bson.M{"name": containsRegex(fragment, true)}, byID())
}

// FindByEmailDomain matches emails ending with domain, ignoring case.
func (r *MemberRepository) FindByEmailDomain(ctx context.Context, domain string) ([]entity.Member, error) {
	filter := bson.M{"email": primitive.Regex{Pattern: regexp.QuoteMeta(domain) + "$", Options: "i"}}
	return r.find(ctx, filter, byID())
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]entity.Member, error) {
	return r.find(ctx, bson.M{}, byID())
}

// FindAllSorted orders in memory with repository.SortMembers so that name and
// email order is the code point order of the lowercased value, as in Postgres.
func (r *MemberRepository) FindAllSorted(ctx context.Context, sort repository.Sort) ([]entity.Member, error) {
	items, err := r.find(ctx, bson.M{}, byID())
	if err != nil {
		return nil, err
	}
	repository.SortMembers(items, sort)
	return items, nil
}

func (r *MemberRepository) FindPage(ctx context.Context, req repository.PageRequest) (repository.Page, error) {
	return r.FindPageByExample(ctx, repository.Example{}, req)
}

func (r *MemberRepository) FindByExample(ctx context.Context, ex repository.Example) ([]entity.Member, error) {
	return r.find(ctx, exampleFilter(ex), byID())
}

// FindPageByExample materializes the matching set and slices it in memory.
func (r *MemberRepository) FindPageByExample(ctx context.Context, ex repository.Example, req repository.PageRequest) (repository.Page, error) {
	req = req.Normalize()
	items, err := r.FindByExample(ctx, ex)
	if err != nil {
		return repository.Page{}, err
	}
	repository.SortMembers(items, req.Sort)
	return repository.Paginate(items, req), nil
}

func (r *MemberRepository) CountByExample(ctx context.Context, ex repository.Example) (int64, error) {
	return r.coll.CountDocuments(ctx, exampleFilter(ex))
}

func (r *MemberRepository) ExistsByExample(ctx context.Context, ex repository.Example) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, exampleFilter(ex), options.Count().SetLimit(1))
	return n > 0, err
}

func (r *MemberRepository) Save(ctx context.Context, m *entity.Member) error {
	doc, err := fromEntity(m)
	if err != nil {
		return repository.ErrNotFound
	}
	if m.IsNew() {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return translate(err)
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			m.ID = oid.Hex()
		}
		return nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MemberRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	return r.deleteOne(ctx, bson.M{"_id": oid})
}

func (r *MemberRepository) Delete(ctx context.Context, m *entity.Member) error {
	return r.deleteOne(ctx, bson.M{"email": m.Email})
}

func (r *MemberRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MemberRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *MemberRepository) findOne(ctx context.Context, filter bson.M) (*entity.Member, error) {
	var doc memberDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	m := doc.toEntity()
	return &m, nil
}

func (r *MemberRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.Member, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []memberDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Member, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (r *MemberRepository) deleteOne(ctx context.Context, filter bson.M) error {
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicateEmail
	}
	return err
}

func byID() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func containsRegex(value string, ignoreCase bool) primitive.Regex {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(value)}
	if ignoreCase {
		re.Options = "i"
	}
	return re
}

func exampleFilter(ex repository.Example) bson.M {
	filter := bson.M{}
	if ex.Sample.Name != "" {
		filter["name"] = containsRegex(ex.Sample.Name, ex.IgnoreCase)
	}
	if ex.Sample.Email != "" {
		filter["email"] = containsRegex(ex.Sample.Email, ex.IgnoreCase)
	}
	if ex.Sample.PhoneNumber != "" {
		filter["phone_number"] = containsRegex(ex.Sample.PhoneNumber, false)
	}
	return filter
}

var _ repository.MemberRepository = (*MemberRepository)(nil)
