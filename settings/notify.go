package settings

// Notifier receives the member name of every setting whose stored value
// changed.
type Notifier interface {
	NotifyChanged(name string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(name string)

func (f NotifierFunc) NotifyChanged(name string) {
	f(name)
}
