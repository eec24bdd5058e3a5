// Package assets provides the stylesheet and HTML template used to lay out
// business documents before they are printed to PDF.
//
// # Loaders
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in "document" style and template
//	    ├── FilesystemLoader  - overrides from a directory on disk
//	    └── AssetResolver     - custom first, embedded on not-found
//
// A deployment can replace only the stylesheet, only the template, or both,
// by dropping files into a base directory:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// Asset names are plain identifiers. FilesystemLoader resolves symlinks and
// refuses any file outside basePath.
package assets
