package query

// synonymDict is a ported subset of utils/synonyms.py's SYNONYM_DICT,
// trimmed to the entries most likely to appear in code-search queries
// (programming, web, databases, networking, errors, version control,
// security). Query expansion looks tokens up
// here; anything absent just contributes itself.
var synonymDict = map[string][]string{
	"function":       {"method", "routine", "procedure", "lambda", "arrow function", "callback", "subroutine"},
	"functions":      {"methods", "routines", "procedures", "lambdas", "callbacks", "subs"},
	"method":         {"function", "routine", "procedure", "member function"},
	"procedure":      {"function", "routine", "method", "subroutine"},
	"subroutine":     {"procedure", "function", "routine"},
	"lambda":         {"anonymous function", "arrow function", "closure"},
	"arrow function": {"lambda", "anonymous function"},
	"callback":       {"handler", "listener", "function"},
	"constructor":    {"initializer", "ctor", "init"},
	"destructor":     {"finalizer", "dtor", "cleanup"},
	"variable":       {"parameter", "argument", "field", "property", "attribute", "var"},
	"variables":      {"parameters", "arguments", "fields", "properties", "attributes", "vars"},
	"parameter":      {"argument", "variable", "input"},
	"parameters":     {"arguments", "variables", "inputs"},
	"argument":       {"parameter", "variable", "input"},
	"arguments":      {"parameters", "variables", "inputs"},
	"field":          {"property", "attribute", "column", "member"},
	"property":       {"field", "attribute", "member"},
	"attribute":      {"field", "property", "decorator"},
	"constant":       {"const", "final", "static", "literal"},
	"const":          {"constant", "final", "static", "literal"},
	"enum":           {"enumeration", "symbol set"},
	"class":          {"type", "object", "constructor", "prototype", "struct", "record"},
	"classes":        {"types", "objects", "constructors", "prototypes", "structs", "records"},
	"object":         {"instance", "entity", "record", "struct", "map", "hash"},
	"objects":        {"instances", "entities", "records", "structs", "maps", "hashes"},
	"struct":         {"structure", "record", "object"},
	"record":         {"struct", "object", "row", "tuple"},
	"interface":      {"protocol", "contract", "trait", "api"},
	"trait":          {"interface", "mixin"},
	"mixin":          {"trait", "extension"},
	"module":         {"package", "namespace", "library", "crate", "gem"},
	"package":        {"module", "library", "namespace", "crate", "gem"},
	"namespace":      {"module", "package", "scope"},
	"library":        {"module", "package", "framework"},
	"framework":      {"library", "platform", "toolkit"},
	"script":         {"program", "code", "file"},
	"program":        {"application", "script", "software", "executable"},
	"application":    {"app", "program", "software"},
	"statement":      {"expression", "command", "instruction", "line"},
	"expression":     {"statement", "formula", "lambda", "expr"},
	"command":        {"statement", "instruction", "cli"},
	"instruction":    {"statement", "command"},
	"loop":           {"iteration", "for", "while", "repeat", "foreach"},
	"iteration":      {"loop", "cycle", "pass"},
	"recursion":      {"recursive", "loop"},
	"array":          {"list", "vector", "sequence", "slice", "collection"},
	"list":           {"array", "vector", "sequence", "collection"},
	"vector":         {"array", "list", "sequence"},
	"slice":          {"array", "list", "vector"},
	"map":            {"dictionary", "object", "hash", "table"},
	"dictionary":     {"map", "hash", "object", "table", "dict"},
	"hash":           {"map", "dictionary", "object", "digest", "checksum"},
	"set":            {"collection", "group", "bag"},
	"queue":          {"fifo", "buffer", "channel"},
	"stack":          {"lifo", "buffer"},
	"pointer":        {"reference", "address", "ptr"},
	"reference":      {"pointer", "address", "ref"},
	"file":           {"document", "script", "resource", "asset"},
	"files":          {"documents", "scripts", "resources", "assets"},
	"document":       {"file", "doc", "text", "page", "record"},
	"text":           {"string", "document", "content"},
	"string":         {"text", "str"},
	"number":         {"integer", "float", "double", "numeric", "decimal"},
	"integer":        {"int", "number", "whole number"},
	"float":          {"double", "number", "real"},
	"boolean":        {"bool", "flag", "truth value"},
	"null":           {"none", "nil", "undefined", "void"},
	"undefined":      {"null", "none", "nil", "void"},
	"none":           {"null", "nil", "undefined", "void"},
	"nil":            {"null", "none", "undefined", "void"},
	"void":           {"null", "none", "nil", "undefined"},

	"element":    {"node", "component", "widget", "tag", "dom element"},
	"component":  {"element", "widget", "module", "react component"},
	"widget":     {"component", "element", "ui element"},
	"selector":   {"query", "pattern", "css selector"},
	"event":      {"signal", "trigger", "callback", "listener"},
	"handler":    {"listener", "callback", "event handler"},
	"listener":   {"handler", "callback", "event listener"},
	"state":      {"status", "condition"},
	"hook":       {"callback", "function", "react hook"},
	"middleware": {"interceptor", "filter", "plugin"},

	"table":       {"relation", "dataset", "spreadsheet"},
	"row":         {"record", "entry", "tuple"},
	"column":      {"field", "attribute"},
	"index":       {"key", "pointer", "idx"},
	"key":         {"index", "identifier", "primary key", "foreign key"},
	"value":       {"data", "entry", "val"},
	"schema":      {"structure", "definition", "model", "blueprint"},
	"migration":   {"update", "change", "alteration"},
	"query":       {"search", "request", "lookup", "sql", "find"},

	"api":       {"endpoint", "service", "interface", "rest api"},
	"endpoint":  {"api", "route", "url", "path"},
	"request":   {"call", "query", "http request"},
	"response":  {"reply", "result", "http response"},
	"server":    {"host", "backend", "service", "daemon"},
	"client":    {"frontend", "consumer", "user agent"},
	"route":     {"path", "endpoint", "url"},
	"url":       {"uri", "link", "address"},
	"websocket": {"ws", "socket", "connection"},

	"build":     {"compile", "make", "assemble"},
	"deploy":    {"release", "publish", "ship", "deployment"},
	"pipeline":  {"workflow", "process", "ci/cd"},
	"job":       {"task", "process", "build job", "worker"},
	"task":      {"job", "process", "step"},
	"process":   {"task", "job", "thread", "worker"},
	"thread":    {"process", "worker", "fiber"},
	"container": {"docker", "pod", "image"},
	"pod":       {"container", "kubernetes pod"},
	"cluster":   {"group", "farm", "kubernetes cluster"},
	"node":      {"server", "host", "instance", "worker"},
	"service":   {"api", "daemon", "microservice", "backend"},

	"test":   {"check", "verify", "assert", "spec"},
	"tests":  {"checks", "verifications", "assertions", "specs"},
	"assert": {"check", "verify", "test", "expect"},
	"mock":   {"stub", "fake", "dummy", "test double"},
	"stub":   {"mock", "fake", "dummy", "test double"},
	"spy":    {"mock", "test double", "observer"},

	"error":       {"exception", "fault", "bug", "issue", "problem", "failure"},
	"errors":      {"exceptions", "faults", "bugs", "issues", "problems", "failures"},
	"exception":   {"error", "fault", "bug", "throwable"},
	"bug":         {"error", "fault", "issue", "defect"},
	"issue":       {"bug", "ticket", "problem", "case"},
	"log":         {"record", "trace", "output", "logging"},
	"trace":       {"log", "stacktrace", "backtrace", "traceback"},
	"stacktrace":  {"trace", "backtrace", "traceback"},
	"debug":       {"troubleshoot", "analyze", "inspect"},

	"commit":      {"change", "revision", "check-in"},
	"branch":      {"fork", "line", "feature branch"},
	"merge":       {"combine", "integrate", "pull request"},
	"pull request": {"merge request", "pr", "mr"},
	"review":      {"code review", "inspection", "peer review"},
	"refactor":    {"restructure", "rewrite", "clean up"},

	"auth":       {"authentication", "authorization", "login", "oauth"},
	"login":      {"sign in", "authenticate", "logon"},
	"logout":     {"sign out", "deauthenticate", "logoff"},
	"session":    {"connection", "context", "user session"},
	"token":      {"cookie", "key", "credential", "jwt"},
	"encryption": {"cipher", "crypto", "cryptography"},

	"serialize":   {"marshal", "encode", "save", "dump"},
	"deserialize": {"unmarshal", "decode", "load", "parse"},

	"search":      {"find", "lookup", "query", "filter", "scan"},
	"retrieve":    {"fetch", "get", "obtain", "load", "pull"},
	"chunk":       {"segment", "piece", "block", "partition", "shard"},
	"chunks":      {"segments", "pieces", "blocks", "partitions", "shards"},
	"project":     {"repo", "repository", "workspace", "solution"},
	"projects":    {"repos", "repositories", "workspaces", "solutions"},
	"optimize":    {"improve", "tune", "refactor", "enhance"},
	"performance": {"speed", "efficiency", "throughput", "latency"},
	"security":    {"safety", "protection", "infosec"},
	"config":      {"settings", "setup", "configuration", "preferences"},
	"settings":    {"configuration", "preferences", "options"},
}
