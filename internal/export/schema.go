package export

// Schema is the JSON Schema (Draft 2020-12) for the generated-case
// JSON output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/forge/case-report.schema.json",
  "title": "Forge Case Report",
  "description": "Output schema for forge generate --format=json",
  "type": "object",
  "required": ["version", "module", "functions", "classes"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "module": {
      "type": "string",
      "description": "Registered module name"
    },
    "functions": {
      "type": "array",
      "items": { "$ref": "#/$defs/FunctionCases" }
    },
    "classes": {
      "type": "array",
      "items": { "$ref": "#/$defs/ClassCases" }
    }
  },
  "$defs": {
    "Case": {
      "type": "object",
      "required": ["description"],
      "properties": {
        "description": {
          "type": "string",
          "description": "Human-readable case description"
        },
        "inputs": {
          "type": "array",
          "items": { "type": "string" },
          "description": "Argument values as display text"
        },
        "outputs": {
          "type": "array",
          "items": { "type": "string" },
          "description": "Expected results as display text; absent for failing cases"
        },
        "err_kind": {
          "type": "string",
          "description": "Expected error kind; absent for passing cases"
        }
      }
    },
    "FunctionCases": {
      "type": "object",
      "required": ["function", "cases"],
      "properties": {
        "function": { "type": "string" },
        "cases": {
          "type": "array",
          "items": { "$ref": "#/$defs/Case" }
        }
      }
    },
    "MemberCases": {
      "type": "object",
      "required": ["member", "cases"],
      "properties": {
        "member": {
          "type": "string",
          "description": "Member name; \"<init>\" for the constructor"
        },
        "ctor_inputs": {
          "type": "array",
          "items": { "type": "string" },
          "description": "Constructor arguments used to build the instance"
        },
        "cases": {
          "type": "array",
          "items": { "$ref": "#/$defs/Case" }
        }
      }
    },
    "ClassCases": {
      "type": "object",
      "required": ["class", "members"],
      "properties": {
        "class": { "type": "string" },
        "members": {
          "type": "array",
          "items": { "$ref": "#/$defs/MemberCases" }
        }
      }
    }
  }
}`
