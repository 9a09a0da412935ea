// Package factory is the runtime behind generated fixture builders.
//
// A builder is a plain struct value describing one record. Its association
// fields hold a factory.Association, which is either Resolved (a record that
// already exists) or Pending (a child builder to insert on demand). Inserting
// a builder resolves every association depth-first, children before their
// parent, and hands the assembled column values to a Store.
//
//	country := factories.NewCountryFactory().WithName("Denmark").Create(t, store)
//	user := factories.NewUserFactory().
//		WithCountry(&country).
//		WithHomeCityFactory(factories.NewCityFactory().WithName("Aarhus")).
//		Create(t, store)
//
// Builders are values: setters return an updated copy and Insert takes its
// receiver by value. Copying a builder copies its pending children, so two
// branches of one base builder insert two independent child rows, while two
// builders sharing one resolved record reuse the same foreign key.
package factory
