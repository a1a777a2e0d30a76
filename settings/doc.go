// Package settings is the runtime half of fluentsettings. Generated
// accessors read and write through a Store, encode non-primitive values with
// a Codec and announce changes to a Notifier.
//
// A type opts in by embedding the generated LocalSettingsBase and filling it:
//
//	p := &prefs.Prefs{}
//	p.Store = settings.NewMapStore()
//	p.Notifier = settings.NotifierFunc(func(name string) { log.Println(name, "changed") })
//	p.SetLogin("alice")
package settings
