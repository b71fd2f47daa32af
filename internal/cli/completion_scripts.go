package cli

var completionScripts = map[string]string{
	"bash": bashCompletionScript,
	"zsh":  zshCompletionScript,
	"fish": fishCompletionScript,
}

const (
	serveFlags  = "--listen --stdio --comm-dir --no-watch --log-file --log-level --config --help -h"
	clientFlags = "--check --message --resources --tools --prompts --call --url --comm-dir --timeout --relay --header --config --verbose -v --quiet -q --help -h"
	installFlags = "--root --binary --comm-dir --list --dry-run --init-config --config --help -h"
)

const bashCompletionScript = `# bash completion for cadbridge
_cadbridge_completion() {
  local cur first
  COMPREPLY=()
  cur="${COMP_WORDS[COMP_CWORD]}"

  if [[ ${COMP_CWORD} -eq 1 ]]; then
    COMPREPLY=( $(compgen -W "serve client install completion help --help -h --version -V" -- "$cur") )
    return 0
  fi

  first="${COMP_WORDS[1]}"
  case "$first" in
    completion)
      COMPREPLY=( $(compgen -W "bash zsh fish" -- "$cur") )
      ;;
    serve)
      COMPREPLY=( $(compgen -W "` + serveFlags + `" -- "$cur") )
      ;;
    client)
      COMPREPLY=( $(compgen -W "` + clientFlags + `" -- "$cur") )
      ;;
    install)
      COMPREPLY=( $(compgen -W "` + installFlags + `" -- "$cur") )
      ;;
  esac
}
complete -F _cadbridge_completion cadbridge
`

const zshCompletionScript = `#compdef cadbridge
_cadbridge_completion() {
  local -a flags

  if (( CURRENT == 2 )); then
    _values 'cadbridge command' serve client install completion help --help -h --version -V
    return
  fi

  case "${words[2]}" in
    completion)
      _values 'shell' bash zsh fish
      ;;
    serve)
      flags=(` + serveFlags + `)
      _describe 'serve flag' flags
      ;;
    client)
      flags=(` + clientFlags + `)
      _describe 'client flag' flags
      ;;
    install)
      flags=(` + installFlags + `)
      _describe 'install flag' flags
      ;;
  esac
}
compdef _cadbridge_completion cadbridge
`

const fishCompletionScript = `function __cadbridge_words
    commandline -opc
end

complete -c cadbridge -n 'test (count (__cadbridge_words)) -eq 1' -a "serve client install completion help --help -h --version -V"
complete -c cadbridge -n 'set -l w (__cadbridge_words); test (count $w) -eq 2; and test "$w[2]" = completion' -a "bash zsh fish"
complete -c cadbridge -n 'set -l w (__cadbridge_words); test (count $w) -ge 2; and test "$w[2]" = serve' -a "` + serveFlags + `"
complete -c cadbridge -n 'set -l w (__cadbridge_words); test (count $w) -ge 2; and test "$w[2]" = client' -a "` + clientFlags + `"
complete -c cadbridge -n 'set -l w (__cadbridge_words); test (count $w) -ge 2; and test "$w[2]" = install' -a "` + installFlags + `"
`
