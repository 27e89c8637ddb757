package storage

import "context"

type namespaced struct {
	inner  Store
	prefix string
}

// Namespaced scopes every key of inner under prefix, so multiple owners can
// share one backing store without colliding.
func Namespaced(inner Store, prefix string) Store {
	return &namespaced{inner: inner, prefix: prefix}
}

func (n *namespaced) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Load(ctx, n.prefix+"_"+key)
}

func (n *namespaced) Save(ctx context.Context, key string, data []byte) error {
	return n.inner.Save(ctx, n.prefix+"_"+key, data)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+"_"+key)
}
